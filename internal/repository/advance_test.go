package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

func TestAdvanceDateRunsStepsInOrder(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)
	newDate := date(t, "2024-01-16")

	mock.ExpectBegin()
	expectClock(mock, lockUpdate, date(t, "2024-01-10"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = 'active'`)).
		WithArgs(newDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET status = 'occupied'`)).
		WithArgs(newDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = 'checked_out'`)).
		WithArgs(newDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET status = 'free'`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET current_guest`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE simulation_clock SET today = $1`)).
		WithArgs(newDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	stats, err := repo.AdvanceDate(context.Background(), newDate)
	require.NoError(t, err)
	assert.Equal(t, model.AdvanceStats{Date: newDate, CheckedIn: 1, Occupied: 0, CheckedOut: 1, Freed: 0}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceDatePastWholeStayCountsNoOccupancy(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)
	newDate := date(t, "2024-01-20")

	mock.ExpectBegin()
	expectClock(mock, lockUpdate, date(t, "2024-01-09"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = 'active'`)).
		WithArgs(newDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET status = 'occupied'`)).
		WithArgs(newDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = 'checked_out'`)).
		WithArgs(newDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET status = 'free'`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET current_guest`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE simulation_clock SET today = $1`)).
		WithArgs(newDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	stats, err := repo.AdvanceDate(context.Background(), newDate)
	require.NoError(t, err)
	assert.Equal(t, model.AdvanceStats{Date: newDate, CheckedIn: 1, CheckedOut: 1}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceOccupyStepOnlyMatchesStaysCoveringTheDate(t *testing.T) {
	var occupy advanceStep
	for _, s := range advanceSteps {
		if s.name == "occupy rooms" {
			occupy = s
		}
	}
	require.NotEmpty(t, occupy.sql)
	assert.True(t, occupy.dated)
	assert.Contains(t, occupy.sql, "b.check_in <= $1")
	assert.Contains(t, occupy.sql, "b.check_out >= $1")
}

func TestAdvanceDateRejectsMovingBackwards(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	expectClock(mock, lockUpdate, date(t, "2024-01-20"))
	mock.ExpectRollback()

	_, err := repo.AdvanceDate(context.Background(), date(t, "2024-01-16"))
	assert.ErrorIs(t, err, apperror.ErrInvalidDateRange)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceDateStepFailureRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)
	newDate := date(t, "2024-01-16")

	mock.ExpectBegin()
	expectClock(mock, lockUpdate, date(t, "2024-01-10"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = 'active'`)).
		WithArgs(newDate).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.AdvanceDate(context.Background(), newDate)
	assert.ErrorIs(t, err, apperror.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceStepOrder(t *testing.T) {
	names := make([]string, 0, len(advanceSteps))
	for _, s := range advanceSteps {
		names = append(names, s.name)
	}
	assert.Equal(t, []string{
		"promote pending bookings",
		"occupy rooms",
		"complete bookings",
		"free rooms",
		"hand over rooms",
	}, names)
}
