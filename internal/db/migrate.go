package db

import (
	"context"
	"database/sql"
)

const authMigration = `
CREATE TABLE IF NOT EXISTS users (
    user_id text PRIMARY KEY,
    subject text NOT NULL,
    email text NOT NULL DEFAULT '',
    email_verified boolean NOT NULL DEFAULT false,
    display_name text NOT NULL DEFAULT '',
    picture text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT users_subject_unique UNIQUE (subject)
);

CREATE TABLE IF NOT EXISTS tokens (
    user_id text PRIMARY KEY REFERENCES users(user_id) ON DELETE CASCADE,
    subject text NOT NULL,
    access_token text NOT NULL,
    token_type text NOT NULL DEFAULT 'Bearer',
    scope text NOT NULL DEFAULT '',
    refresh_token text NOT NULL DEFAULT '',
    issued_at timestamptz NOT NULL,
    expires_at timestamptz NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT tokens_subject_unique UNIQUE (subject)
);
`

// RunAuthMigration creates the identity and credential tables.
// Idempotent; runs at startup.
func RunAuthMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, authMigration)
	return err
}
