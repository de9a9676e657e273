package auth

import (
	"context"
	"time"
)

// Identity represents a normalized external authentication identity
// as reported by the OAuth provider. It contains facts only, no decisions.
type Identity struct {
	UserID        string    `json:"user_id"`        // opaque local key
	Subject       string    `json:"subject"`        // provider-scoped unique user identifier (sub)
	Email         string    `json:"email"`          // email returned by provider
	EmailVerified bool      `json:"email_verified"` // whether provider asserts email ownership
	DisplayName   string    `json:"display_name"`   // profile name, may be empty
	Picture       string    `json:"picture"`        // profile picture URL, may be empty
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IdentityStore persists identities keyed by local user id, with a
// secondary lookup by provider subject. Upsert replaces the stored
// profile snapshot. The core never deletes identities; deletion belongs
// to user management, which lives outside this service.
type IdentityStore interface {
	Get(ctx context.Context, userID string) (*Identity, error)
	GetBySubject(ctx context.Context, subject string) (*Identity, error)
	Upsert(ctx context.Context, id Identity) error
}
