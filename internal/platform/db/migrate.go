package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied on every startup; statements are idempotent so a fresh
// database and an existing one both end up with the same shape.
const schema = `
CREATE TABLE IF NOT EXISTS settings (
	id               SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	hotel_name       TEXT NOT NULL DEFAULT 'Posada Azul',
	exchange_rate    NUMERIC(14,4) NOT NULL DEFAULT 36.0,
	shift_opened_at  TIMESTAMPTZ,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'reception',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id),
	expires_at TIMESTAMPTZ NOT NULL,
	ip         TEXT,
	user_agent TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS guests (
	id          BIGSERIAL PRIMARY KEY,
	document    TEXT NOT NULL UNIQUE,
	names       TEXT NOT NULL,
	phone       TEXT NOT NULL DEFAULT '',
	birth_date  TEXT NOT NULL DEFAULT '',
	nationality TEXT NOT NULL DEFAULT 'Venezolano',
	profession  TEXT NOT NULL DEFAULT '',
	vehicle     TEXT NOT NULL DEFAULT '',
	balance     NUMERIC(14,2) NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS rooms (
	number      INTEGER PRIMARY KEY,
	room_type   TEXT NOT NULL DEFAULT 'Standard',
	description TEXT NOT NULL DEFAULT '',
	rate_usd    NUMERIC(14,2) NOT NULL DEFAULT 30.0,
	status      TEXT NOT NULL DEFAULT 'FREE'
);

CREATE TABLE IF NOT EXISTS stays (
	id                BIGSERIAL PRIMARY KEY,
	guest_id          BIGINT NOT NULL REFERENCES guests(id),
	room_number       INTEGER NOT NULL REFERENCES rooms(number),
	entry_date        DATE NOT NULL,
	planned_exit_date DATE NOT NULL,
	status            TEXT NOT NULL DEFAULT 'ACTIVE',
	notes             TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS stays_one_active_per_room
	ON stays (room_number) WHERE status = 'ACTIVE';

CREATE TABLE IF NOT EXISTS stay_companions (
	id       BIGSERIAL PRIMARY KEY,
	stay_id  BIGINT NOT NULL REFERENCES stays(id),
	guest_id BIGINT NOT NULL REFERENCES guests(id),
	UNIQUE (stay_id, guest_id)
);

CREATE TABLE IF NOT EXISTS payment_transactions (
	id            BIGSERIAL PRIMARY KEY,
	stay_id       BIGINT REFERENCES stays(id),
	amount_usd    NUMERIC(14,4) NOT NULL,
	exchange_rate NUMERIC(14,4) NOT NULL,
	amount_local  NUMERIC(14,2) NOT NULL,
	method        TEXT NOT NULL,
	kind          TEXT NOT NULL,
	recorded_at   TIMESTAMPTZ NOT NULL,
	user_id       BIGINT REFERENCES users(id),
	reference     TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS payment_transactions_stay_idx
	ON payment_transactions (stay_id, recorded_at);
CREATE INDEX IF NOT EXISTS payment_transactions_user_time_idx
	ON payment_transactions (user_id, recorded_at);

CREATE TABLE IF NOT EXISTS shift_closures (
	id          BIGSERIAL PRIMARY KEY,
	user_id     BIGINT NOT NULL REFERENCES users(id),
	opened_at   TIMESTAMPTZ NOT NULL,
	closed_at   TIMESTAMPTZ NOT NULL,
	total_usd   NUMERIC(14,2) NOT NULL,
	total_local NUMERIC(14,2) NOT NULL,
	breakdown   JSONB NOT NULL DEFAULT '{}'::jsonb
);

CREATE TABLE IF NOT EXISTS idempotency_keys (
	key        TEXT PRIMARY KEY,
	module     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id          BIGSERIAL PRIMARY KEY,
	actor_id    BIGINT,
	action      TEXT NOT NULL,
	entity      TEXT NOT NULL,
	entity_id   TEXT NOT NULL,
	meta        JSONB NOT NULL DEFAULT '{}'::jsonb,
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("platform/db: migrate: %w", err)
	}
	return nil
}
