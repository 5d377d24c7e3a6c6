package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

const historyColumns = `id, room_number, guest_id, check_in, check_out, booked_at`

// HistoryRepository reads and purges the append-only booking history.
// Records are only ever written by BookingRepository.CheckIn.
type HistoryRepository struct {
	db DB
}

// NewHistoryRepository constructs a HistoryRepository.
func NewHistoryRepository(db DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// List returns every history record, newest first.
func (r *HistoryRepository) List(ctx context.Context) ([]model.BookingHistoryRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+historyColumns+` FROM booking_history ORDER BY booked_at DESC, id`,
	)
	if err != nil {
		return nil, apperror.Storage("list history", err)
	}
	return collectHistory(rows)
}

// ListByRoom returns the history of one room, newest first.
func (r *HistoryRepository) ListByRoom(ctx context.Context, room int) ([]model.BookingHistoryRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+historyColumns+` FROM booking_history WHERE room_number = $1 ORDER BY booked_at DESC, id`,
		room,
	)
	if err != nil {
		return nil, apperror.Storage("list room history", err)
	}
	return collectHistory(rows)
}

// PurgeGuest deletes every history record of guestID and returns how many
// were removed.
func (r *HistoryRepository) PurgeGuest(ctx context.Context, guestID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM booking_history WHERE guest_id = $1`, guestID)
	if err != nil {
		return 0, apperror.Storage("purge guest history", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeAll deletes the whole history.
func (r *HistoryRepository) PurgeAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM booking_history`)
	if err != nil {
		return 0, apperror.Storage("purge history", err)
	}
	return tag.RowsAffected(), nil
}

func appendHistory(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO booking_history (`+historyColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), b.RoomNumber, b.GuestID, b.CheckIn, b.CheckOut, b.CreatedAt,
	)
	if err != nil {
		return apperror.Storage("insert history record", err)
	}
	return nil
}

func collectHistory(rows pgx.Rows) ([]model.BookingHistoryRecord, error) {
	defer rows.Close()

	records := []model.BookingHistoryRecord{}
	for rows.Next() {
		var h model.BookingHistoryRecord
		if err := rows.Scan(&h.ID, &h.RoomNumber, &h.GuestID, &h.CheckIn, &h.CheckOut, &h.BookedAt); err != nil {
			return nil, apperror.Storage("scan history record", err)
		}
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage("iterate history", err)
	}
	return records, nil
}
