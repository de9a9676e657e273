package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Gun-code/sec-a-back/internal/auth"
)

// unexported, collision-proof context key
type identityContextKeyType struct{}

var identityKey = identityContextKeyType{}

// IdentityFromContext extracts the authenticated identity from context.
// The attachment is request-scoped and read-only.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*auth.Identity)
	return id, ok
}

// Verifier is the slice of the orchestrator the gate needs.
type Verifier interface {
	VerifyAndResolve(ctx context.Context, accessToken string) (*auth.Identity, error)
}

// AuthMiddleware validates the bearer credential on every protected request
// and attaches the resolved identity to the request context.
type AuthMiddleware struct {
	Verifier Verifier
}

func NewAuthMiddleware(v Verifier) *AuthMiddleware {
	return &AuthMiddleware{Verifier: v}
}

// BearerToken extracts the access token from the Authorization header.
// The header must be exactly `Bearer <token>` with a non-empty token.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingCredential
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", auth.ErrMissingCredential
	}

	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", auth.ErrMissingCredential
	}
	return tok, nil
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Extract bearer credential
		tok, err := BearerToken(r)
		if err != nil {
			http.Error(w, "missing credential", http.StatusUnauthorized)
			return
		}

		// 2. Validate with the provider via the orchestrator
		ident, err := a.Verifier.VerifyAndResolve(r.Context(), tok)
		if err != nil {
			// A provider outage is not an auth verdict; never answer 401
			// for it or clients will force pointless re-logins.
			if errors.Is(err, auth.ErrProviderUnavailable) {
				http.Error(w, "auth service unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 3. Attach identity to context and continue
		ctx := context.WithValue(r.Context(), identityKey, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
