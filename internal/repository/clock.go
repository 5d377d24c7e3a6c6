package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
)

// Lock strengths for the clock row. Check-in and check-out hold it shared,
// the date-advance batch holds it exclusively, so the batch never
// interleaves with a single-guest operation.
const (
	lockShare  = "FOR SHARE"
	lockUpdate = "FOR UPDATE"
)

// ClockRepository reads the simulated current date.
type ClockRepository struct {
	db DB
}

// NewClockRepository constructs a ClockRepository.
func NewClockRepository(db DB) *ClockRepository {
	return &ClockRepository{db: db}
}

// Today returns the simulated current date.
func (r *ClockRepository) Today(ctx context.Context) (time.Time, error) {
	var today time.Time
	err := r.db.QueryRow(ctx, `SELECT today FROM simulation_clock WHERE id = 1`).Scan(&today)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, apperror.Storage("read clock", errors.New("simulation clock is not initialised"))
		}
		return time.Time{}, apperror.Storage("read clock", err)
	}
	return today, nil
}

// lockClock reads the clock row inside tx with the given lock strength.
func lockClock(ctx context.Context, tx pgx.Tx, strength string) (time.Time, error) {
	var today time.Time
	err := tx.QueryRow(ctx, `SELECT today FROM simulation_clock WHERE id = 1 `+strength).Scan(&today)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, apperror.Storage("lock clock row", errors.New("simulation clock is not initialised"))
		}
		return time.Time{}, apperror.Storage("lock clock row", err)
	}
	return today, nil
}
