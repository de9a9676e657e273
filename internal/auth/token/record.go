package token

import "time"

// Record is the stored provider credential for one user. Exactly one live
// record exists per user id; an upsert replaces the prior record atomically.
type Record struct {
	UserID       string    `json:"user_id"`
	Subject      string    `json:"subject"` // provider subject id
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	Scope        string    `json:"scope"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"` // issued_at + provider expires_in
}

// Expired reports whether the access token has passed its provider-reported
// expiry at the given instant.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
