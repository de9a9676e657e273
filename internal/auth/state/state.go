package state

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// LoginState correlates a login initiation with its provider callback.
// It is transient: consumed exactly once, or expired by TTL.
type LoginState struct {
	Token     string    `json:"token"`   // unguessable CSRF nonce
	UserID    string    `json:"user_id"` // user the login was initiated for
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store holds pending login states. Consume removes the entry so a state
// token can never be redeemed twice; it returns (nil, nil) for unknown or
// already-consumed tokens.
type Store interface {
	Create(ctx context.Context, s LoginState) error
	Consume(ctx context.Context, token string) (*LoginState, error)
}

// GenerateToken generates a cryptographically secure state token.
// 32 bytes = 256 bits of entropy.
func GenerateToken() (string, error) {

	const size = 32 // 256 bits

	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("state: failed to generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil

}
