package auth

import (
	"context"
	"time"
)

// TokenGrant is the normalized result of a code exchange or refresh at the
// provider's token endpoint. ExpiresAt is derived from the provider-reported
// expires_in at issuance time and is never recomputed downstream.
type TokenGrant struct {
	AccessToken  string
	TokenType    string
	Scope        string
	RefreshToken string // may be empty; providers often omit it on refresh
	Subject      string // filled from a verified id_token when available
	Email        string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// Verification is the provider's verdict on a presented access token.
type Verification struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Provider wraps the outbound calls to the identity provider. Implementations
// return identity and token facts only and must not touch local storage.
//
// Failure contract: transport errors and timeouts surface as
// ErrProviderUnavailable; provider rejections surface as ErrInvalidGrant
// (Exchange), ErrUnauthorized (FetchProfile, VerifyToken), or
// ErrRefreshInvalid (Refresh).
type Provider interface {
	// AuthCodeURL builds the provider authorization URL with the given CSRF
	// state embedded. No network call.
	AuthCodeURL(state string) string

	Exchange(ctx context.Context, code string) (*TokenGrant, error)

	FetchProfile(ctx context.Context, accessToken string) (*Identity, error)

	VerifyToken(ctx context.Context, accessToken string) (*Verification, error)

	Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error)
}
