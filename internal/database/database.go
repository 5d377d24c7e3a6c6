// Package database provides PostgreSQL connection management and schema
// bootstrap using pgx.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/config"
	"github.com/Shivanand-hulikatti/hotel-occupancy/pkg/logger"
)

const connectAttempts = 5

// NewPool creates and validates a pgxpool connection pool.
// It retries a few times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg config.Database, log logger.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	for k, v := range cfg.RuntimeParams() {
		poolCfg.ConnConfig.RuntimeParams[k] = v
	}

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		log.Warn("database connect attempt failed",
			"attempt", attempt, "max_attempts", connectAttempts, "error", err)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to postgres: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// Execer runs a single statement.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		number        integer PRIMARY KEY CHECK (number > 0),
		type          text NOT NULL CHECK (type IN ('Economy', 'Standard', 'Business', 'Suite')),
		status        text NOT NULL DEFAULT 'free' CHECK (status IN ('free', 'occupied')),
		current_guest text,
		updated_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id          text PRIMARY KEY,
		guest_id    text NOT NULL,
		room_number integer NOT NULL REFERENCES rooms (number),
		check_in    date NOT NULL,
		check_out   date NOT NULL,
		status      text NOT NULL CHECK (status IN ('pending', 'active', 'checked_out')),
		guest_name  text NOT NULL DEFAULT '',
		guest_email text NOT NULL DEFAULT '',
		guest_phone text NOT NULL DEFAULT '',
		created_at  timestamptz NOT NULL,
		updated_at  timestamptz NOT NULL,
		CHECK (check_in < check_out)
	)`,
	// At most one live booking per guest, enforced by the store as well.
	`CREATE UNIQUE INDEX IF NOT EXISTS bookings_live_guest_idx
		ON bookings (guest_id) WHERE status IN ('pending', 'active')`,
	`CREATE INDEX IF NOT EXISTS bookings_live_room_idx
		ON bookings (room_number, check_in) WHERE status IN ('pending', 'active')`,
	`CREATE TABLE IF NOT EXISTS booking_history (
		id          text PRIMARY KEY,
		room_number integer NOT NULL,
		guest_id    text NOT NULL,
		check_in    date NOT NULL,
		check_out   date NOT NULL,
		booked_at   timestamptz NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS booking_history_room_idx ON booking_history (room_number)`,
	`CREATE INDEX IF NOT EXISTS booking_history_guest_idx ON booking_history (guest_id)`,
	`CREATE TABLE IF NOT EXISTS simulation_clock (
		id         smallint PRIMARY KEY CHECK (id = 1),
		today      date NOT NULL,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the schema if it does not exist and seeds the simulated
// clock with startDate. An existing clock is left untouched.
func Migrate(ctx context.Context, db Execer, startDate time.Time) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	_, err := db.Exec(ctx,
		`INSERT INTO simulation_clock (id, today) VALUES (1, $1) ON CONFLICT (id) DO NOTHING`,
		startDate,
	)
	if err != nil {
		return fmt.Errorf("seed simulation clock: %w", err)
	}
	return nil
}
