package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

const bookingColumns = `id, guest_id, room_number, check_in, check_out, status,
	guest_name, guest_email, guest_phone, created_at, updated_at`

// NewBooking describes a requested stay.
type NewBooking struct {
	GuestID    string
	RoomNumber int
	Stay       model.Interval
	GuestName  string
	GuestEmail string
	GuestPhone string
}

// BookingRepository handles persistence for live bookings and owns the
// transactions that move rooms and bookings together.
type BookingRepository struct {
	db DB
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// IsAvailable reports whether no live booking on room overlaps stay.
func (r *BookingRepository) IsAvailable(ctx context.Context, room int, stay model.Interval) (bool, error) {
	if !stay.Valid() {
		return false, invalidRange(stay)
	}
	return roomAvailable(ctx, r.db, room, stay)
}

// GuestHasLiveBooking reports whether guestID holds a pending or active
// booking.
func (r *BookingRepository) GuestHasLiveBooking(ctx context.Context, guestID string) (bool, error) {
	return guestHasLiveBooking(ctx, r.db, guestID)
}

// LiveByGuest returns the guest's pending or active booking.
func (r *BookingRepository) LiveByGuest(ctx context.Context, guestID string) (*model.Booking, error) {
	return liveBookingByGuest(ctx, r.db, guestID)
}

// CheckIn creates a booking for nb after checking, in order, the date
// range, that the room exists, that the stay has not already ended, that
// the guest holds no live booking, and that the room is free for the stay.
// Room existence is settled by taking the room lock, so an unknown room
// reports ROOM_NOT_FOUND even for a guest who is already active. All checks and writes share one transaction that holds the
// room row lock, so two racing check-ins on the same room are serialised
// and the second one sees the first one's booking.
//
// The booking starts active when the stay has begun by the simulated
// current date, pending otherwise. A history record is appended in the
// same transaction.
func (r *BookingRepository) CheckIn(ctx context.Context, nb NewBooking) (*model.Booking, error) {
	if !nb.Stay.Valid() {
		return nil, invalidRange(nb.Stay)
	}

	var booking *model.Booking
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		today, err := lockClock(ctx, tx, lockShare)
		if err != nil {
			return err
		}
		if err := lockRoom(ctx, tx, nb.RoomNumber); err != nil {
			return err
		}
		if nb.Stay.End.Before(today) {
			return apperror.Newf(apperror.CodeInvalidDateRange,
				"stay ending %s is already over (today is %s)",
				model.FormatDate(nb.Stay.End), model.FormatDate(today))
		}

		active, err := guestHasLiveBooking(ctx, tx, nb.GuestID)
		if err != nil {
			return err
		}
		if active {
			return apperror.Newf(apperror.CodeGuestAlreadyActive,
				"guest %s already has a pending or active booking", nb.GuestID)
		}

		free, err := roomAvailable(ctx, tx, nb.RoomNumber, nb.Stay)
		if err != nil {
			return err
		}
		if !free {
			return apperror.Newf(apperror.CodeRoomUnavailable,
				"room %d is already booked between %s and %s",
				nb.RoomNumber, model.FormatDate(nb.Stay.Start), model.FormatDate(nb.Stay.End))
		}

		now := time.Now().UTC()
		b := &model.Booking{
			ID:         uuid.New().String(),
			GuestID:    nb.GuestID,
			RoomNumber: nb.RoomNumber,
			CheckIn:    nb.Stay.Start,
			CheckOut:   nb.Stay.End,
			Status:     model.InitialStatus(nb.Stay.Start, today),
			GuestName:  nb.GuestName,
			GuestEmail: nb.GuestEmail,
			GuestPhone: nb.GuestPhone,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO bookings (`+bookingColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			b.ID, b.GuestID, b.RoomNumber, b.CheckIn, b.CheckOut, string(b.Status),
			b.GuestName, b.GuestEmail, b.GuestPhone, b.CreatedAt, b.UpdatedAt,
		)
		if err != nil {
			if uniqueViolation(err, liveBookingIndex) {
				return apperror.Newf(apperror.CodeGuestAlreadyActive,
					"guest %s already has a pending or active booking", nb.GuestID)
			}
			return apperror.Storage("insert booking", err)
		}

		if b.Status == model.BookingActive {
			if err := syncRoom(ctx, tx, b.RoomNumber); err != nil {
				return err
			}
		}

		if err := appendHistory(ctx, tx, b); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CheckOut terminates the guest's live booking, whatever its planned end
// date, and frees the room when no other active booking holds it.
func (r *BookingRepository) CheckOut(ctx context.Context, guestID string) (*model.Booking, error) {
	var booking *model.Booking
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := lockClock(ctx, tx, lockShare); err != nil {
			return err
		}

		b, err := liveBookingByGuest(ctx, tx, guestID)
		if err != nil {
			return err
		}
		if err := lockRoom(ctx, tx, b.RoomNumber); err != nil {
			return err
		}

		// Re-checked under the room lock: a concurrent check-out of the same
		// guest leaves nothing to update here.
		tag, err := tx.Exec(ctx,
			`UPDATE bookings SET status = 'checked_out', updated_at = now()
			 WHERE id = $1 AND status IN ('pending', 'active')`,
			b.ID,
		)
		if err != nil {
			return apperror.Storage("check out booking", err)
		}
		if tag.RowsAffected() == 0 {
			return guestNotFound(guestID)
		}

		if err := syncRoom(ctx, tx, b.RoomNumber); err != nil {
			return err
		}

		b.Status = model.BookingCheckedOut
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func roomAvailable(ctx context.Context, q Querier, room int, stay model.Interval) (bool, error) {
	rows, err := q.Query(ctx,
		`SELECT check_in, check_out FROM bookings
		 WHERE room_number = $1 AND status IN ('pending', 'active')`,
		room,
	)
	if err != nil {
		return false, apperror.Storage("query room bookings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var booked model.Interval
		if err := rows.Scan(&booked.Start, &booked.End); err != nil {
			return false, apperror.Storage("scan room booking", err)
		}
		if stay.Overlaps(booked) {
			return false, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, apperror.Storage("iterate room bookings", err)
	}
	return true, nil
}

func guestHasLiveBooking(ctx context.Context, q Querier, guestID string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE guest_id = $1 AND status IN ('pending', 'active'))`,
		guestID,
	).Scan(&exists)
	if err != nil {
		return false, apperror.Storage("check guest bookings", err)
	}
	return exists, nil
}

func liveBookingByGuest(ctx context.Context, q Querier, guestID string) (*model.Booking, error) {
	row := q.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE guest_id = $1 AND status IN ('pending', 'active')`,
		guestID,
	)

	var (
		b      model.Booking
		status string
	)
	err := row.Scan(&b.ID, &b.GuestID, &b.RoomNumber, &b.CheckIn, &b.CheckOut, &status,
		&b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, guestNotFound(guestID)
		}
		return nil, apperror.Storage("get live booking", err)
	}
	b.Status = model.BookingStatus(status)
	return &b, nil
}

func guestNotFound(guestID string) error {
	return apperror.Newf(apperror.CodeGuestNotFound, "guest %s has no pending or active booking", guestID)
}

func invalidRange(stay model.Interval) error {
	return apperror.Newf(apperror.CodeInvalidDateRange,
		"check-in %s must be before check-out %s",
		model.FormatDate(stay.Start), model.FormatDate(stay.End))
}
