// Package repository implements all database access for the hotel
// occupancy system. It uses pgx directly (no ORM); every multi-step
// mutation runs inside a single transaction.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
)

// Querier is the statement surface shared by a pool and a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

const (
	pgUniqueViolation = "23505"

	liveBookingIndex = "bookings_live_guest_idx"
	roomsPrimaryKey  = "rooms_pkey"
)

// withTx runs fn inside a transaction. Any error from fn rolls the
// transaction back; nothing is retried here so side effects such as
// history rows are never applied twice.
func withTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return apperror.Storage("begin transaction", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.Storage("commit transaction", err)
	}
	return nil
}

// uniqueViolation reports whether err is a unique violation on constraint.
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}
