package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied at startup; every statement is idempotent. Stay and
// lease bounds are DATE columns so they read back as calendar days.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	name       TEXT        NOT NULL DEFAULT '',
	email      TEXT        NOT NULL UNIQUE,
	image      TEXT        NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS listings (
	id               TEXT PRIMARY KEY,
	user_id          TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	title            TEXT        NOT NULL,
	description      TEXT        NOT NULL DEFAULT '',
	image_src        TEXT        NOT NULL DEFAULT '',
	photo_file_id    TEXT        NOT NULL DEFAULT '',
	category         TEXT        NOT NULL DEFAULT '',
	room_count       INTEGER     NOT NULL DEFAULT 0,
	bathroom_count   INTEGER     NOT NULL DEFAULT 0,
	guest_count      INTEGER     NOT NULL DEFAULT 0,
	location_value   TEXT        NOT NULL DEFAULT '',
	lat              DOUBLE PRECISION,
	lng              DOUBLE PRECISION,
	lease_start_date DATE,
	lease_end_date   DATE,
	price            INTEGER     NOT NULL CHECK (price >= 0),
	status           TEXT        NOT NULL DEFAULT 'pending',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_listings_status   ON listings (status);
CREATE INDEX IF NOT EXISTS idx_listings_category ON listings (category);
CREATE INDEX IF NOT EXISTS idx_listings_user     ON listings (user_id);

CREATE TABLE IF NOT EXISTS reservations (
	id          TEXT PRIMARY KEY,
	listing_id  TEXT        NOT NULL REFERENCES listings (id) ON DELETE CASCADE,
	user_id     TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	start_date  DATE        NOT NULL,
	end_date    DATE        NOT NULL,
	total_price INTEGER     NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reservations_listing ON reservations (listing_id, start_date);
CREATE INDEX IF NOT EXISTS idx_reservations_user    ON reservations (user_id);

CREATE TABLE IF NOT EXISTS contact_requests (
	id         TEXT PRIMARY KEY,
	listing_id TEXT        NOT NULL REFERENCES listings (id) ON DELETE CASCADE,
	sender_id  TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	owner_id   TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	message    TEXT        NOT NULL,
	start_date DATE,
	end_date   DATE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the tables and indexes if they are missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("EnsureSchema: %w", err)
	}
	return nil
}
