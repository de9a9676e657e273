package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Gun-code/sec-a-back/internal/auth"
	"github.com/Gun-code/sec-a-back/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const providerName = "google"

// defaultExpiry is assumed when the token endpoint omits expires_in.
const defaultExpiry = 3600 * time.Second

// Config carries the provider wiring. When Issuer is set, endpoints come
// from OIDC discovery and id_tokens are verified; otherwise AuthURL and
// TokenURL are used directly.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	Issuer       string
	AuthURL      string
	TokenURL     string
	UserinfoURL  string
	TokeninfoURL string

	Timeout time.Duration
}

// Provider implements the outbound OAuth2 calls against Google. It returns
// token and identity facts only; no storage or auth decisions are made here.
type Provider struct {
	oauthConfig  *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	client       *http.Client
	userinfoURL  string
	tokeninfoURL string
	timeout      time.Duration
}

func New(ctx context.Context, cfg Config) (*Provider, error) {

	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	endpoint := oauth2.Endpoint{
		AuthURL:  cfg.AuthURL,
		TokenURL: cfg.TokenURL,
	}

	var verifier *oidc.IDTokenVerifier
	if cfg.Issuer != "" {
		oidcProvider, err := oidc.NewProvider(ctx, cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
		}
		endpoint = oidcProvider.Endpoint()
		verifier = oidcProvider.Verifier(&oidc.Config{
			ClientID: cfg.ClientID,
		})
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "email", "profile"}
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}

	return &Provider{
		oauthConfig:  oauthCfg,
		verifier:     verifier,
		client:       &http.Client{Timeout: timeout},
		userinfoURL:  cfg.UserinfoURL,
		tokeninfoURL: cfg.TokeninfoURL,
		timeout:      timeout,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with the CSRF state.
// access_type=offline asks Google for a refresh token.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
	)
}

func (p *Provider) Exchange(ctx context.Context, code string) (*auth.TokenGrant, error) {

	ctx, cancel := p.callContext(ctx)
	defer cancel()

	tok, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, p.classify("token exchange", err, auth.ErrInvalidGrant)
	}

	grant := grantFromToken(tok)

	// When discovery is configured, a verified id_token gives us the subject
	// without an extra userinfo round trip.
	if p.verifier != nil {
		if rawIDToken, ok := tok.Extra("id_token").(string); ok && rawIDToken != "" {
			idToken, err := p.verifier.Verify(ctx, rawIDToken)
			if err != nil {
				logger.Warn("google id_token verification failed", map[string]any{
					"error": err.Error(),
				})
			} else {
				var claims struct {
					Subject string `json:"sub"`
					Email   string `json:"email"`
				}
				if err := idToken.Claims(&claims); err == nil {
					grant.Subject = claims.Subject
					grant.Email = claims.Email
				}
			}
		}
	}

	return grant, nil
}

func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (*auth.Identity, error) {

	ctx, cancel := p.callContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("google userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", auth.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: userinfo returned %d", auth.ErrProviderUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: userinfo returned %d", auth.ErrUnauthorized, resp.StatusCode)
	}

	// The v2 userinfo endpoint reports id/verified_email; the OIDC endpoint
	// reports sub/email_verified. Accept both shapes.
	var info struct {
		Sub           string `json:"sub"`
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("google userinfo decode: %w", err)
	}

	subject := info.Sub
	if subject == "" {
		subject = info.ID
	}
	if subject == "" {
		return nil, errors.New("google userinfo missing subject")
	}

	return &auth.Identity{
		Subject:       subject,
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail || info.EmailVerified,
		DisplayName:   info.Name,
		Picture:       info.Picture,
	}, nil
}

func (p *Provider) VerifyToken(ctx context.Context, accessToken string) (*auth.Verification, error) {

	ctx, cancel := p.callContext(ctx)
	defer cancel()

	u := p.tokeninfoURL + "?" + url.Values{
		"access_token": {accessToken},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("google tokeninfo request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: tokeninfo: %v", auth.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: tokeninfo returned %d", auth.ErrProviderUnavailable, resp.StatusCode)
	default:
		// Google answers 400 with {"error":"invalid_token"} for malformed,
		// expired, and revoked tokens alike. Terminal for this credential.
		return nil, fmt.Errorf("%w: tokeninfo returned %d", auth.ErrUnauthorized, resp.StatusCode)
	}

	var info struct {
		UserID    string `json:"user_id"`
		Sub       string `json:"sub"`
		Email     string `json:"email"`
		ExpiresIn int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("google tokeninfo decode: %w", err)
	}

	subject := info.UserID
	if subject == "" {
		subject = info.Sub
	}

	v := &auth.Verification{
		Subject: subject,
		Email:   info.Email,
	}
	if info.ExpiresIn > 0 {
		v.ExpiresAt = time.Now().Add(time.Duration(info.ExpiresIn) * time.Second)
	}
	return v, nil
}

func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*auth.TokenGrant, error) {

	ctx, cancel := p.callContext(ctx)
	defer cancel()

	ts := p.oauthConfig.TokenSource(ctx, &oauth2.Token{
		RefreshToken: refreshToken,
	})

	tok, err := ts.Token()
	if err != nil {
		return nil, p.classify("token refresh", err, auth.ErrRefreshInvalid)
	}

	grant := grantFromToken(tok)
	if grant.RefreshToken == refreshToken {
		// No rotation: the previous refresh token remains the live one and
		// the caller decides whether to persist it again.
		grant.RefreshToken = ""
	}
	return grant, nil
}

// callContext bounds a provider call with the configured timeout and routes
// oauth2's internal HTTP through the shared client.
func (p *Provider) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	return context.WithTimeout(ctx, p.timeout)
}

// classify splits token-endpoint failures into a terminal rejection vs a
// retryable outage. A provider 5xx or any transport error is an outage;
// everything the provider explicitly rejected maps to the given sentinel.
func (p *Provider) classify(op string, err error, rejected error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %s returned %d", auth.ErrProviderUnavailable, op, retrieveErr.Response.StatusCode)
		}
		if retrieveErr.ErrorCode != "" {
			return fmt.Errorf("%w: %s: %s", rejected, op, retrieveErr.ErrorCode)
		}
		return fmt.Errorf("%w: %s", rejected, op)
	}
	return fmt.Errorf("%w: %s: %v", auth.ErrProviderUnavailable, op, err)
}

func grantFromToken(tok *oauth2.Token) *auth.TokenGrant {
	now := time.Now()

	expiresAt := tok.Expiry
	if expiresAt.IsZero() {
		expiresAt = now.Add(defaultExpiry)
	}

	scope, _ := tok.Extra("scope").(string)

	return &auth.TokenGrant{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.Type(),
		Scope:        scope,
		RefreshToken: tok.RefreshToken,
		IssuedAt:     now,
		ExpiresAt:    expiresAt,
	}
}
