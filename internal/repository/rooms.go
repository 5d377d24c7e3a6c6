package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

const roomColumns = `number, type, status, current_guest, updated_at`

// Room status is always derived from the room's active bookings. These
// expressions are evaluated against the rooms row being updated.
const (
	hasActiveBooking = `EXISTS (SELECT 1 FROM bookings b WHERE b.room_number = rooms.number AND b.status = 'active')`

	activeGuest = `(SELECT b.guest_id FROM bookings b
		WHERE b.room_number = rooms.number AND b.status = 'active'
		ORDER BY b.check_in DESC LIMIT 1)`
)

// RoomRepository handles persistence for rooms.
type RoomRepository struct {
	db DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create registers a new, free room.
func (r *RoomRepository) Create(ctx context.Context, number int, roomType model.RoomType) (*model.Room, error) {
	room := &model.Room{
		Number:    number,
		Type:      roomType,
		Status:    model.RoomFree,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO rooms (number, type, status, updated_at) VALUES ($1, $2, $3, $4)`,
		room.Number, string(room.Type), string(room.Status), room.UpdatedAt,
	)
	if err != nil {
		if uniqueViolation(err, roomsPrimaryKey) {
			return nil, apperror.Newf(apperror.CodeRoomExists, "room %d already exists", number)
		}
		return nil, apperror.Storage("insert room", err)
	}
	return room, nil
}

// List returns every room ordered by number.
func (r *RoomRepository) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY number`)
	if err != nil {
		return nil, apperror.Storage("list rooms", err)
	}
	return collectRooms(rows)
}

// ListByStatus returns the rooms in the given status ordered by number.
func (r *RoomRepository) ListByStatus(ctx context.Context, status model.RoomStatus) ([]model.Room, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE status = $1 ORDER BY number`,
		string(status),
	)
	if err != nil {
		return nil, apperror.Storage("list rooms by status", err)
	}
	return collectRooms(rows)
}

// GetByNumber returns a single room or a ROOM_NOT_FOUND error.
func (r *RoomRepository) GetByNumber(ctx context.Context, number int) (*model.Room, error) {
	room, err := scanRoom(r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE number = $1`, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.Newf(apperror.CodeRoomNotFound, "room %d does not exist", number)
		}
		return nil, apperror.Storage("get room", err)
	}
	return room, nil
}

// lockRoom takes an exclusive row lock on the room for the rest of tx.
// Concurrent check-ins and check-outs on the same room queue here, which
// closes the gap between the availability read and the booking write.
func lockRoom(ctx context.Context, tx pgx.Tx, number int) error {
	var locked int
	err := tx.QueryRow(ctx, `SELECT number FROM rooms WHERE number = $1 FOR UPDATE`, number).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.Newf(apperror.CodeRoomNotFound, "room %d does not exist", number)
		}
		return apperror.Storage("lock room row", err)
	}
	return nil
}

// syncRoom recomputes a room's status and occupant from its bookings. It is
// the only statement outside the date-advance batch that writes
// rooms.status.
func syncRoom(ctx context.Context, tx pgx.Tx, number int) error {
	_, err := tx.Exec(ctx,
		`UPDATE rooms SET
			status = CASE WHEN `+hasActiveBooking+` THEN 'occupied' ELSE 'free' END,
			current_guest = `+activeGuest+`,
			updated_at = now()
		WHERE number = $1`,
		number,
	)
	if err != nil {
		return apperror.Storage(fmt.Sprintf("sync room %d", number), err)
	}
	return nil
}

func scanRoom(row pgx.Row) (*model.Room, error) {
	var (
		room           model.Room
		roomType, stat string
	)
	if err := row.Scan(&room.Number, &roomType, &stat, &room.CurrentGuest, &room.UpdatedAt); err != nil {
		return nil, err
	}
	room.Type = model.RoomType(roomType)
	room.Status = model.RoomStatus(stat)
	return &room, nil
}

func collectRooms(rows pgx.Rows) ([]model.Room, error) {
	defer rows.Close()

	rooms := []model.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, apperror.Storage("scan room", err)
		}
		rooms = append(rooms, *room)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage("iterate rooms", err)
	}
	return rooms, nil
}
