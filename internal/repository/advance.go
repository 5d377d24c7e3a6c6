package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

// hasStayOn matches a room with an active booking whose stay covers $1,
// departure day included.
const hasStayOn = `EXISTS (SELECT 1 FROM bookings b
	WHERE b.room_number = rooms.number AND b.status = 'active'
	AND b.check_in <= $1 AND b.check_out >= $1)`

type advanceStep struct {
	name string
	sql  string
	// dated steps take the new date as $1.
	dated bool
	// count selects the AdvanceStats field set from the affected row count.
	count func(*model.AdvanceStats) *int
}

// advanceSteps run in order inside one transaction. Promotion precedes
// occupation and completion precedes freeing. Every predicate only matches
// rows that are out of step with the new date, so re-running the batch for
// the same date changes nothing. servicetest.Store replays these steps in
// memory and must be updated alongside them.
var advanceSteps = []advanceStep{
	{
		name:  "promote pending bookings",
		sql:   `UPDATE bookings SET status = 'active', updated_at = now() WHERE status = 'pending' AND check_in <= $1`,
		dated: true,
		count: func(s *model.AdvanceStats) *int { return &s.CheckedIn },
	},
	{
		// Only a stay the new date falls in occupies its room. A stay the
		// clock jumped over entirely is promoted and completed in the same
		// batch without ever occupying the room. The departure day still
		// counts, matching the completion predicate below.
		name: "occupy rooms",
		sql: `UPDATE rooms SET status = 'occupied', current_guest = ` + activeGuest + `, updated_at = now()
			WHERE status = 'free' AND ` + hasStayOn,
		dated: true,
		count: func(s *model.AdvanceStats) *int { return &s.Occupied },
	},
	{
		name:  "complete bookings",
		sql:   `UPDATE bookings SET status = 'checked_out', updated_at = now() WHERE status = 'active' AND check_out < $1`,
		dated: true,
		count: func(s *model.AdvanceStats) *int { return &s.CheckedOut },
	},
	{
		name: "free rooms",
		sql: `UPDATE rooms SET status = 'free', current_guest = NULL, updated_at = now()
			WHERE status = 'occupied' AND NOT ` + hasActiveBooking,
		count: func(s *model.AdvanceStats) *int { return &s.Freed },
	},
	{
		// A room handed from a departing guest to an arriving one stays
		// occupied; only its occupant changes.
		name: "hand over rooms",
		sql: `UPDATE rooms SET current_guest = ` + activeGuest + `, updated_at = now()
			WHERE status = 'occupied' AND current_guest IS DISTINCT FROM ` + activeGuest,
	},
}

// AdvanceDate moves the simulated clock to date and reconciles every
// booking and room with it. Moving the clock backwards is rejected; moving
// it to the current date re-runs the reconciliation and is a no-op on a
// consistent store.
func (r *BookingRepository) AdvanceDate(ctx context.Context, date time.Time) (model.AdvanceStats, error) {
	stats := model.AdvanceStats{Date: date}

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		today, err := lockClock(ctx, tx, lockUpdate)
		if err != nil {
			return err
		}
		if date.Before(today) {
			return apperror.Newf(apperror.CodeInvalidDateRange,
				"cannot move the date back from %s to %s",
				model.FormatDate(today), model.FormatDate(date))
		}

		for _, step := range advanceSteps {
			var args []any
			if step.dated {
				args = append(args, date)
			}
			tag, err := tx.Exec(ctx, step.sql, args...)
			if err != nil {
				return apperror.Storage(step.name, err)
			}
			if step.count != nil {
				*step.count(&stats) = int(tag.RowsAffected())
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE simulation_clock SET today = $1, updated_at = now() WHERE id = 1`,
			date,
		); err != nil {
			return apperror.Storage("move clock", err)
		}
		return nil
	})
	if err != nil {
		return model.AdvanceStats{}, err
	}
	return stats, nil
}
