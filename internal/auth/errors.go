package auth

import "errors"

// Failure taxonomy for the OAuth core. Handlers and middleware map these
// to HTTP status codes; nothing below the transport layer knows about HTTP.
var (
	// ErrInvalidState rejects callbacks whose CSRF state is unknown,
	// expired, or already consumed.
	ErrInvalidState = errors.New("invalid or expired login state")

	// ErrInvalidGrant means the provider rejected the authorization code
	// (expired, already used, or redirect URI mismatch). The user must
	// restart the login flow.
	ErrInvalidGrant = errors.New("authorization code rejected")

	// ErrUnauthorized means the provider rejected the presented access token.
	ErrUnauthorized = errors.New("access token rejected")

	// ErrProviderUnavailable means the provider could not be reached or
	// timed out. Transient; callers may retry. Never conflated with
	// ErrUnauthorized so outages do not force re-logins.
	ErrProviderUnavailable = errors.New("identity provider unavailable")

	// ErrRefreshInvalid means the provider reported the refresh token as
	// revoked or expired. Terminal: the stored credential is discarded and
	// the user must log in again.
	ErrRefreshInvalid = errors.New("refresh token revoked or expired")

	// ErrMissingCredential means the Authorization header is absent or not
	// a well-formed bearer credential.
	ErrMissingCredential = errors.New("missing or malformed bearer credential")

	// ErrNotFound means no credential is stored for the given key.
	ErrNotFound = errors.New("credential not found")
)
