package token

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gun-code/sec-a-back/internal/db"
)

// PostgresStore persists token records in the tokens table. The upsert is a
// single INSERT ... ON CONFLICT statement, so concurrent writers for the same
// user id serialize on the row and the stored record is never torn.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*Record, error) {
	return s.get(ctx, `
		SELECT user_id, subject, access_token, token_type, scope,
		       refresh_token, issued_at, expires_at
		FROM tokens
		WHERE user_id = $1
	`, userID)
}

func (s *PostgresStore) GetBySubject(ctx context.Context, subject string) (*Record, error) {
	return s.get(ctx, `
		SELECT user_id, subject, access_token, token_type, scope,
		       refresh_token, issued_at, expires_at
		FROM tokens
		WHERE subject = $1
	`, subject)
}

func (s *PostgresStore) get(ctx context.Context, query, key string) (*Record, error) {
	var r Record
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&r.UserID,
		&r.Subject,
		&r.AccessToken,
		&r.TokenType,
		&r.Scope,
		&r.RefreshToken,
		&r.IssuedAt,
		&r.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, fmt.Errorf("token: query failed: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, r Record) error {
	if r.UserID == "" || r.AccessToken == "" {
		return fmt.Errorf("token: missing user_id or access_token")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (
			user_id, subject, access_token, token_type, scope,
			refresh_token, issued_at, expires_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			subject       = EXCLUDED.subject,
			access_token  = EXCLUDED.access_token,
			token_type    = EXCLUDED.token_type,
			scope         = EXCLUDED.scope,
			refresh_token = EXCLUDED.refresh_token,
			issued_at     = EXCLUDED.issued_at,
			expires_at    = EXCLUDED.expires_at,
			updated_at    = NOW()
	`,
		r.UserID,
		r.Subject,
		r.AccessToken,
		r.TokenType,
		r.Scope,
		r.RefreshToken,
		r.IssuedAt,
		r.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("token: upsert failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM tokens WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("token: delete failed: %w", err)
	}
	return nil
}
