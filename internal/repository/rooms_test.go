package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

func roomRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"number", "type", "status", "current_guest", "updated_at"})
}

func TestRoomListByStatus(t *testing.T) {
	mock := newMock(t)
	repo := NewRoomRepository(mock)
	guest := "A"
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms WHERE status = $1`)).
		WithArgs("occupied").
		WillReturnRows(roomRows().AddRow(101, "Suite", "occupied", &guest, now))

	rooms, err := repo.ListByStatus(context.Background(), model.RoomOccupied)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, model.RoomSuite, rooms[0].Type)
	assert.Equal(t, model.RoomOccupied, rooms[0].Status)
	require.NotNil(t, rooms[0].CurrentGuest)
	assert.Equal(t, "A", *rooms[0].CurrentGuest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomListEmptyIsNotNil(t *testing.T) {
	mock := newMock(t)
	repo := NewRoomRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms ORDER BY number`)).WillReturnRows(roomRows())

	rooms, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rooms)
	assert.Empty(t, rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomListStorageError(t *testing.T) {
	mock := newMock(t)
	repo := NewRoomRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms ORDER BY number`)).WillReturnError(assert.AnError)

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, apperror.ErrStorage)
}

func TestRoomCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewRoomRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rooms`)).
		WithArgs(101, "Business", "free", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	room, err := repo.Create(context.Background(), 101, model.RoomBusiness)
	require.NoError(t, err)
	assert.Equal(t, model.RoomFree, room.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewRoomRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rooms`)).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: roomsPrimaryKey})

	_, err := repo.Create(context.Background(), 101, model.RoomBusiness)
	assert.ErrorIs(t, err, apperror.ErrRoomExists)
}

func TestRoomGetByNumberNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewRoomRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms WHERE number = $1`)).
		WithArgs(404).
		WillReturnRows(roomRows())

	_, err := repo.GetByNumber(context.Background(), 404)
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
