package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gun-code/sec-a-back/internal/db"
)

// PostgresIdentityStore persists identities in the users table.
type PostgresIdentityStore struct {
	db *db.DB
}

func NewPostgresIdentityStore(db *db.DB) *PostgresIdentityStore {
	return &PostgresIdentityStore{db: db}
}

func (s *PostgresIdentityStore) Get(ctx context.Context, userID string) (*Identity, error) {
	return s.get(ctx, `
		SELECT user_id, subject, email, email_verified, display_name, picture,
		       created_at, updated_at
		FROM users
		WHERE user_id = $1
	`, userID)
}

func (s *PostgresIdentityStore) GetBySubject(ctx context.Context, subject string) (*Identity, error) {
	return s.get(ctx, `
		SELECT user_id, subject, email, email_verified, display_name, picture,
		       created_at, updated_at
		FROM users
		WHERE subject = $1
	`, subject)
}

func (s *PostgresIdentityStore) get(ctx context.Context, query, key string) (*Identity, error) {
	var id Identity
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&id.UserID,
		&id.Subject,
		&id.Email,
		&id.EmailVerified,
		&id.DisplayName,
		&id.Picture,
		&id.CreatedAt,
		&id.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, fmt.Errorf("identity: query failed: %w", err)
	}
	return &id, nil
}

func (s *PostgresIdentityStore) Upsert(ctx context.Context, id Identity) error {
	if id.UserID == "" || id.Subject == "" {
		return fmt.Errorf("identity: missing user_id or subject")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			user_id, subject, email, email_verified, display_name, picture,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			subject        = EXCLUDED.subject,
			email          = EXCLUDED.email,
			email_verified = EXCLUDED.email_verified,
			display_name   = EXCLUDED.display_name,
			picture        = EXCLUDED.picture,
			updated_at     = NOW()
	`,
		id.UserID,
		id.Subject,
		id.Email,
		id.EmailVerified,
		id.DisplayName,
		id.Picture,
	)
	if err != nil {
		return fmt.Errorf("identity: upsert failed: %w", err)
	}
	return nil
}
