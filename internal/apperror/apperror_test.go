package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMatchesSentinel(t *testing.T) {
	err := Newf(CodeRoomUnavailable, "room %d is booked", 101)

	assert.ErrorIs(t, err, ErrRoomUnavailable)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrGuestNotFound)
	assert.Equal(t, "[ROOM_UNAVAILABLE] room 101 is booked", err.Error())
}

func TestInputCodesMatchValidation(t *testing.T) {
	for _, code := range []ErrorCode{CodeValidation, CodeInvalidDateRange, CodeRoomNotFound, CodeRoomExists} {
		err := New(code, "bad input", nil)
		assert.ErrorIs(t, err, ErrValidation, code)
	}
}

func TestStorageWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("check in: %w", Storage("lock room row", cause))

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeStorage, CodeOf(err))
	assert.Equal(t, "storage failure, please retry", MessageOf(err))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.Equal(t, CodeStorage, CodeOf(errors.New("boom")))
	assert.Equal(t, CodeGuestNotFound, CodeOf(New(CodeGuestNotFound, "no booking", nil)))
	assert.Equal(t, "internal error", MessageOf(errors.New("boom")))
}
