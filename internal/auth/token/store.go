package token

import "context"

// Store defines how provider credentials are persisted. All operations are
// keyed lookups; implementations must never scan in the hot path.
//
// Get and GetBySubject return (nil, nil) when no record exists. Upsert is an
// atomic replace: concurrent upserts for the same user id serialize at the
// storage layer so the stored record always reflects the most recently
// completed exchange.
type Store interface {
	Get(ctx context.Context, userID string) (*Record, error)
	GetBySubject(ctx context.Context, subject string) (*Record, error)
	Upsert(ctx context.Context, r Record) error
	Delete(ctx context.Context, userID string) error
}
