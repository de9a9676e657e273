package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gun-code/sec-a-back/internal/auth/state"
	"github.com/Gun-code/sec-a-back/internal/auth/token"
	"github.com/Gun-code/sec-a-back/internal/logger"
)

// LoginResult is the outcome of a login initiation. Either the user already
// holds a usable credential (Authenticated, Token set) or a provider login
// must happen (LoginURL and State set).
type LoginResult struct {
	LoginURL      string
	State         string
	Authenticated bool
	Token         *token.Record
}

// Service drives the OAuth token lifecycle: login initiation, callback
// completion, per-request verification, and refresh. It is the only
// component that translates provider failures into state transitions;
// everything else passes typed errors through unchanged.
type Service struct {
	provider   Provider
	tokens     token.Store
	states     state.Store
	identities IdentityStore
	locks      *keyLock
	stateTTL   time.Duration

	now func() time.Time // swapped in tests
}

func NewService(
	p Provider,
	tokens token.Store,
	states state.Store,
	identities IdentityStore,
	stateTTL time.Duration,
) *Service {
	if stateTTL <= 0 {
		stateTTL = 5 * time.Minute
	}
	return &Service{
		provider:   p,
		tokens:     tokens,
		states:     states,
		identities: identities,
		locks:      newKeyLock(),
		stateTTL:   stateTTL,
		now:        time.Now,
	}
}

// InitiateLogin checks whether the user already holds a usable credential
// before sending them to the provider. A live token short-circuits the OAuth
// dance entirely; an expired token is refreshed first and only a terminally
// failed refresh falls back to a fresh login URL.
func (s *Service) InitiateLogin(ctx context.Context, userID, email string) (*LoginResult, error) {

	if userID == "" {
		return nil, errors.New("user_id is required")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	rec, err := s.tokens.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load token record: %w", err)
	}

	if rec != nil {
		if !rec.Expired(s.now()) {
			return &LoginResult{Authenticated: true, Token: rec}, nil
		}

		if rec.RefreshToken != "" {
			refreshed, err := s.refreshLocked(ctx, rec)
			if err == nil {
				return &LoginResult{Authenticated: true, Token: refreshed}, nil
			}
			if !errors.Is(err, ErrRefreshInvalid) {
				// transient outage: do not force a re-login over it
				return nil, err
			}
			// refreshLocked already deleted the record; fall through
		}
	}

	stateToken, err := state.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	ls := state.LoginState{
		Token:     stateToken,
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.stateTTL),
	}
	if err := s.states.Create(ctx, ls); err != nil {
		return nil, fmt.Errorf("store login state: %w", err)
	}

	logger.Info("login initiated", map[string]any{
		"user_id": userID,
	})

	return &LoginResult{
		LoginURL: s.provider.AuthCodeURL(stateToken),
		State:    stateToken,
	}, nil
}

// CompleteCallback consumes the CSRF state, exchanges the authorization code,
// and persists the identity and credential. The state is single-use: it is
// removed on consumption regardless of how the exchange ends.
func (s *Service) CompleteCallback(ctx context.Context, code, stateToken string) (*token.Record, error) {

	if code == "" || stateToken == "" {
		return nil, fmt.Errorf("%w: missing code or state", ErrInvalidState)
	}

	ls, err := s.states.Consume(ctx, stateToken)
	if err != nil {
		return nil, fmt.Errorf("consume login state: %w", err)
	}
	if ls == nil || !ls.ExpiresAt.After(s.now()) {
		return nil, ErrInvalidState
	}

	grant, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.provider.FetchProfile(ctx, grant.AccessToken)
	if err != nil {
		return nil, err
	}

	// The login was initiated for ls.UserID, but if this provider subject is
	// already linked to a local user the stored mapping wins.
	userID := ls.UserID
	existing, err := s.identities.GetBySubject(ctx, profile.Subject)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if existing != nil {
		userID = existing.UserID
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	now := s.now()
	ident := Identity{
		UserID:        userID,
		Subject:       profile.Subject,
		Email:         profile.Email,
		EmailVerified: profile.EmailVerified,
		DisplayName:   profile.DisplayName,
		Picture:       profile.Picture,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if ident.Email == "" {
		ident.Email = ls.Email
	}
	if err := s.identities.Upsert(ctx, ident); err != nil {
		return nil, fmt.Errorf("store identity: %w", err)
	}

	rec := recordFromGrant(userID, grant)
	if rec.Subject == "" {
		rec.Subject = profile.Subject
	}
	if err := s.tokens.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("store token record: %w", err)
	}

	logger.Info("oauth callback completed", map[string]any{
		"user_id": userID,
		"subject": profile.Subject,
	})

	return &rec, nil
}

// VerifyAndResolve validates the presented access token with the provider and
// returns the locally stored identity for its subject. Stored expiry metadata
// is realigned with the provider's answer rather than trusted locally.
func (s *Service) VerifyAndResolve(ctx context.Context, accessToken string) (*Identity, error) {

	v, err := s.provider.VerifyToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	ident, err := s.identities.GetBySubject(ctx, v.Subject)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if ident == nil {
		return nil, fmt.Errorf("%w: no identity for subject", ErrUnauthorized)
	}

	if !v.ExpiresAt.IsZero() {
		s.syncExpiry(ctx, v)
	}

	return ident, nil
}

// syncExpiry rewrites the stored expiry when the provider reports a different
// one. Best effort: verification already succeeded.
func (s *Service) syncExpiry(ctx context.Context, v *Verification) {
	rec, err := s.tokens.GetBySubject(ctx, v.Subject)
	if err != nil || rec == nil {
		return
	}

	unlock := s.locks.Lock(rec.UserID)
	defer unlock()

	cur, err := s.tokens.Get(ctx, rec.UserID)
	if err != nil || cur == nil || cur.ExpiresAt.Equal(v.ExpiresAt) {
		return
	}
	cur.ExpiresAt = v.ExpiresAt
	if err := s.tokens.Upsert(ctx, *cur); err != nil {
		logger.Warn("failed to sync token expiry", map[string]any{
			"user_id": cur.UserID,
			"error":   err.Error(),
		})
	}
}

// Refresh rotates the stored credential for userID. A terminal refresh
// failure deletes the record and surfaces ErrRefreshInvalid so the caller
// restarts the login flow.
func (s *Service) Refresh(ctx context.Context, userID string) (*token.Record, error) {

	unlock := s.locks.Lock(userID)
	defer unlock()

	rec, err := s.tokens.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load token record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: no credential for user", ErrNotFound)
	}

	return s.refreshLocked(ctx, rec)
}

// refreshLocked performs the provider refresh for an already-locked user.
func (s *Service) refreshLocked(ctx context.Context, rec *token.Record) (*token.Record, error) {

	if rec.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token stored", ErrRefreshInvalid)
	}

	grant, err := s.provider.Refresh(ctx, rec.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshInvalid) {
			if delErr := s.tokens.Delete(ctx, rec.UserID); delErr != nil {
				logger.Error("failed to delete revoked credential", map[string]any{
					"user_id": rec.UserID,
					"error":   delErr.Error(),
				})
			}
			logger.Info("refresh token revoked, credential deleted", map[string]any{
				"user_id": rec.UserID,
			})
		}
		return nil, err
	}

	next := recordFromGrant(rec.UserID, grant)
	if next.RefreshToken == "" {
		// provider omitted the refresh token; the previous one stays valid
		next.RefreshToken = rec.RefreshToken
	}
	if next.Subject == "" {
		next.Subject = rec.Subject
	}

	if err := s.tokens.Upsert(ctx, next); err != nil {
		return nil, fmt.Errorf("store refreshed token: %w", err)
	}

	logger.Info("access token refreshed", map[string]any{
		"user_id": next.UserID,
	})

	return &next, nil
}

// RefreshCredential serves the transport-level refresh endpoint, where only
// the refresh token itself is presented. The new credential is persisted
// when it can be correlated to a stored record by provider subject.
func (s *Service) RefreshCredential(ctx context.Context, refreshToken string) (*token.Record, error) {

	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", ErrRefreshInvalid)
	}

	grant, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	rec := recordFromGrant("", grant)
	if rec.RefreshToken == "" {
		rec.RefreshToken = refreshToken
	}

	subject := grant.Subject
	if subject == "" {
		if v, err := s.provider.VerifyToken(ctx, grant.AccessToken); err == nil {
			subject = v.Subject
		}
	}
	if subject == "" {
		return &rec, nil // cannot correlate; caller still gets the new grant
	}
	rec.Subject = subject

	stored, err := s.tokens.GetBySubject(ctx, subject)
	if err != nil || stored == nil {
		return &rec, nil
	}

	unlock := s.locks.Lock(stored.UserID)
	defer unlock()

	rec.UserID = stored.UserID
	if err := s.tokens.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("store refreshed token: %w", err)
	}

	logger.Info("access token refreshed", map[string]any{
		"user_id": rec.UserID,
	})

	return &rec, nil
}

func recordFromGrant(userID string, g *TokenGrant) token.Record {
	return token.Record{
		UserID:       userID,
		Subject:      g.Subject,
		AccessToken:  g.AccessToken,
		TokenType:    g.TokenType,
		Scope:        g.Scope,
		RefreshToken: g.RefreshToken,
		IssuedAt:     g.IssuedAt,
		ExpiresAt:    g.ExpiresAt,
	}
}
