package database

// The exclusion constraint is the store-level guarantee that no two active
// reservations for a room share a calendar day. Ranges are inclusive on
// both ends, matching the engine's overlap rule.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id              UUID PRIMARY KEY,
		name            TEXT NOT NULL,
		price_per_night BIGINT NOT NULL CHECK (price_per_night >= 0),
		price_with_meal BIGINT NOT NULL DEFAULT 0 CHECK (price_with_meal >= 0),
		max_guests      INTEGER,
		accommodation   TEXT[] NOT NULL DEFAULT '{}',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id                UUID PRIMARY KEY,
		room_id           UUID NOT NULL,
		user_id           UUID NOT NULL,
		start_date        DATE NOT NULL,
		end_date          DATE NOT NULL,
		guests            INTEGER NOT NULL CHECK (guests > 0),
		with_meal         BOOLEAN NOT NULL DEFAULT FALSE,
		contact_name      TEXT NOT NULL DEFAULT '',
		contact_email     TEXT NOT NULL DEFAULT '',
		contact_phone     TEXT NOT NULL DEFAULT '',
		currency          TEXT NOT NULL,
		price_per_night   BIGINT NOT NULL,
		nights            INTEGER NOT NULL CHECK (nights > 0),
		amount            BIGINT NOT NULL,
		status            TEXT NOT NULL,
		hold_expires_at   TIMESTAMPTZ,
		payment_order_id  TEXT UNIQUE,
		payment_reference TEXT,
		payment_signature TEXT,
		captured_amount   BIGINT NOT NULL DEFAULT 0,
		needs_refund      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL,
		confirmed_at      TIMESTAMPTZ,
		CHECK (start_date <= end_date),
		CONSTRAINT reservations_no_overlap EXCLUDE USING gist (
			room_id WITH =,
			daterange(start_date, end_date, '[]') WITH &&
		) WHERE (status IN ('HELD', 'PAID', 'CONFIRMED'))
	)`,
	`CREATE INDEX IF NOT EXISTS reservations_room_status_idx ON reservations (room_id, status)`,
	`CREATE INDEX IF NOT EXISTS reservations_lapsed_holds_idx ON reservations (hold_expires_at) WHERE status = 'HELD'`,
}
