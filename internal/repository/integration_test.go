package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/database"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

// These tests run against a disposable Postgres database named by
// HOTEL_TEST_DATABASE_URL. Every table is truncated before each test.
func newIntegrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("HOTEL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("HOTEL_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool, date(t, "2024-01-10")))
	_, err = pool.Exec(ctx, `TRUNCATE booking_history, bookings, rooms`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE simulation_clock SET today = $1 WHERE id = 1`, date(t, "2024-01-10"))
	require.NoError(t, err)

	rooms := NewRoomRepository(pool)
	for _, n := range []int{101, 102} {
		_, err := rooms.Create(ctx, n, model.RoomStandard)
		require.NoError(t, err)
	}
	return pool
}

type snapshot struct {
	rooms    []model.Room
	bookings map[string]model.BookingStatus
	history  int
}

func takeSnapshot(t *testing.T, pool *pgxpool.Pool) snapshot {
	t.Helper()
	ctx := context.Background()

	rooms, err := NewRoomRepository(pool).List(ctx)
	require.NoError(t, err)

	rows, err := pool.Query(ctx, `SELECT id, status FROM bookings`)
	require.NoError(t, err)
	bookings := map[string]model.BookingStatus{}
	for rows.Next() {
		var id, status string
		require.NoError(t, rows.Scan(&id, &status))
		bookings[id] = model.BookingStatus(status)
	}
	rows.Close()

	history, err := NewHistoryRepository(pool).List(ctx)
	require.NoError(t, err)

	return snapshot{rooms: rooms, bookings: bookings, history: len(history)}
}

// assertConsistent checks that no two live bookings on a room overlap and
// that a room is occupied exactly when it has an active booking.
func assertConsistent(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	var overlaps int
	err := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings a JOIN bookings b
		  ON a.room_number = b.room_number AND a.id < b.id
		WHERE a.status IN ('pending', 'active') AND b.status IN ('pending', 'active')
		  AND a.check_in < b.check_out AND b.check_in < a.check_out`).Scan(&overlaps)
	require.NoError(t, err)
	assert.Zero(t, overlaps, "live bookings overlap")

	var drift int
	err = pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM rooms r
		WHERE (r.status = 'occupied') <> EXISTS (
			SELECT 1 FROM bookings b WHERE b.room_number = r.number AND b.status = 'active')`).Scan(&drift)
	require.NoError(t, err)
	assert.Zero(t, drift, "room status drifted from bookings")
}

func roomStatus(t *testing.T, pool *pgxpool.Pool, n int) model.RoomStatus {
	t.Helper()
	room, err := NewRoomRepository(pool).GetByNumber(context.Background(), n)
	require.NoError(t, err)
	return room.Status
}

func TestIntegrationHandOverScenario(t *testing.T) {
	pool := newIntegrationPool(t)
	ctx := context.Background()
	bookings := NewBookingRepository(pool)
	history := NewHistoryRepository(pool)

	ok, err := bookings.IsAvailable(ctx, 101, stay(t, "2024-02-01", "2024-02-05"))
	require.NoError(t, err)
	assert.True(t, ok)

	a, err := bookings.CheckIn(ctx, NewBooking{GuestID: "A", RoomNumber: 101, Stay: stay(t, "2024-01-10", "2024-01-15")})
	require.NoError(t, err)
	assert.Equal(t, model.BookingActive, a.Status)
	assert.Equal(t, model.RoomOccupied, roomStatus(t, pool, 101))
	records, err := history.ListByRoom(ctx, 101)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	before := takeSnapshot(t, pool)
	_, err = bookings.CheckIn(ctx, NewBooking{GuestID: "B", RoomNumber: 101, Stay: stay(t, "2024-01-12", "2024-01-14")})
	assert.ErrorIs(t, err, apperror.ErrRoomUnavailable)
	assert.Equal(t, before, takeSnapshot(t, pool))

	b, err := bookings.CheckIn(ctx, NewBooking{GuestID: "B", RoomNumber: 101, Stay: stay(t, "2024-01-15", "2024-01-20")})
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, b.Status)
	assertConsistent(t, pool)

	stats, err := bookings.AdvanceDate(ctx, date(t, "2024-01-16"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CheckedIn)
	assert.Equal(t, 1, stats.CheckedOut)
	assert.Equal(t, model.RoomOccupied, roomStatus(t, pool, 101))
	room, err := NewRoomRepository(pool).GetByNumber(ctx, 101)
	require.NoError(t, err)
	require.NotNil(t, room.CurrentGuest)
	assert.Equal(t, "B", *room.CurrentGuest)
	assertConsistent(t, pool)

	_, err = bookings.CheckOut(ctx, "A")
	assert.ErrorIs(t, err, apperror.ErrGuestNotFound)
}

func TestIntegrationAdvanceIsIdempotent(t *testing.T) {
	pool := newIntegrationPool(t)
	ctx := context.Background()
	bookings := NewBookingRepository(pool)

	_, err := bookings.CheckIn(ctx, NewBooking{GuestID: "A", RoomNumber: 101, Stay: stay(t, "2024-01-10", "2024-01-12")})
	require.NoError(t, err)
	_, err = bookings.CheckIn(ctx, NewBooking{GuestID: "B", RoomNumber: 102, Stay: stay(t, "2024-01-11", "2024-01-13")})
	require.NoError(t, err)

	_, err = bookings.AdvanceDate(ctx, date(t, "2024-01-13"))
	require.NoError(t, err)
	once := takeSnapshot(t, pool)

	stats, err := bookings.AdvanceDate(ctx, date(t, "2024-01-13"))
	require.NoError(t, err)
	assert.False(t, stats.Changed())
	assert.Equal(t, once, takeSnapshot(t, pool))
	assertConsistent(t, pool)

	_, err = bookings.AdvanceDate(ctx, date(t, "2024-01-12"))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestIntegrationConcurrentCheckInsNeverDoubleBook(t *testing.T) {
	pool := newIntegrationPool(t)
	ctx := context.Background()
	bookings := NewBookingRepository(pool)

	const guests = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < guests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := bookings.CheckIn(ctx, NewBooking{
				GuestID:    fmt.Sprintf("guest-%02d", i),
				RoomNumber: 101,
				Stay:       stay(t, "2024-01-10", "2024-01-15"),
			})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, apperror.ErrRoomUnavailable)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	assertConsistent(t, pool)
}

func TestIntegrationCheckOutEarlyFreesRoom(t *testing.T) {
	pool := newIntegrationPool(t)
	ctx := context.Background()
	bookings := NewBookingRepository(pool)

	_, err := bookings.CheckIn(ctx, NewBooking{GuestID: "A", RoomNumber: 102, Stay: stay(t, "2024-01-10", "2024-01-20")})
	require.NoError(t, err)

	b, err := bookings.CheckOut(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, model.BookingCheckedOut, b.Status)
	assert.Equal(t, model.RoomFree, roomStatus(t, pool, 102))

	ok, err := bookings.IsAvailable(ctx, 102, stay(t, "2024-01-12", "2024-01-14"))
	require.NoError(t, err)
	assert.True(t, ok)
	assertConsistent(t, pool)
}

func TestIntegrationAdvancePastWholeStayNeverOccupiesRoom(t *testing.T) {
	pool := newIntegrationPool(t)
	ctx := context.Background()
	bookings := NewBookingRepository(pool)

	_, err := bookings.CheckIn(ctx, NewBooking{GuestID: "P", RoomNumber: 101, Stay: stay(t, "2024-01-11", "2024-01-13")})
	require.NoError(t, err)

	stats, err := bookings.AdvanceDate(ctx, date(t, "2024-01-20"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CheckedIn)
	assert.Equal(t, 0, stats.Occupied)
	assert.Equal(t, 1, stats.CheckedOut)
	assert.Equal(t, 0, stats.Freed)
	assert.Equal(t, model.RoomFree, roomStatus(t, pool, 101))
	assertConsistent(t, pool)
}

func TestIntegrationAdvanceToDepartureDayKeepsRoomOccupied(t *testing.T) {
	pool := newIntegrationPool(t)
	ctx := context.Background()
	bookings := NewBookingRepository(pool)

	_, err := bookings.CheckIn(ctx, NewBooking{GuestID: "P", RoomNumber: 101, Stay: stay(t, "2024-01-11", "2024-01-13")})
	require.NoError(t, err)

	stats, err := bookings.AdvanceDate(ctx, date(t, "2024-01-13"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CheckedIn)
	assert.Equal(t, 1, stats.Occupied)
	assert.Equal(t, 0, stats.CheckedOut)
	assert.Equal(t, model.RoomOccupied, roomStatus(t, pool, 101))
	assertConsistent(t, pool)
}
