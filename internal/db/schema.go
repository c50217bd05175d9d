// internal/db/schema.go
package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Uniqueness and reference rules live in the schema: duplicate emails
// surface as unique violations and deleting a referenced user is
// blocked by RESTRICT rather than checked in application code.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS requests (
	id BIGSERIAL PRIMARY KEY,
	description TEXT NOT NULL,
	requester_id BIGINT NOT NULL REFERENCES users (id) ON DELETE RESTRICT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS items (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description VARCHAR(512) NOT NULL,
	available BOOLEAN NOT NULL,
	owner_id BIGINT NOT NULL REFERENCES users (id) ON DELETE RESTRICT,
	request_id BIGINT REFERENCES requests (id)
);

CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	item_id BIGINT NOT NULL REFERENCES items (id) ON DELETE CASCADE,
	booker_id BIGINT NOT NULL REFERENCES users (id) ON DELETE RESTRICT,
	start_at TIMESTAMPTZ NOT NULL,
	end_at TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL,
	CONSTRAINT bookings_range_check CHECK (start_at < end_at)
);

CREATE TABLE IF NOT EXISTS request_items (
	id BIGSERIAL PRIMARY KEY,
	request_id BIGINT NOT NULL REFERENCES requests (id) ON DELETE CASCADE,
	item_id BIGINT NOT NULL REFERENCES items (id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS comments (
	id BIGSERIAL PRIMARY KEY,
	text TEXT NOT NULL,
	item_id BIGINT NOT NULL REFERENCES items (id) ON DELETE CASCADE,
	author_id BIGINT NOT NULL REFERENCES users (id) ON DELETE RESTRICT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS bookings_booker_idx ON bookings (booker_id, start_at DESC);
CREATE INDEX IF NOT EXISTS bookings_item_idx ON bookings (item_id, status);
`

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
