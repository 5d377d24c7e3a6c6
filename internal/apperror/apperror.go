// Package apperror defines the error taxonomy shared by the repository,
// service and handler layers.
package apperror

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodeInvalidDateRange   ErrorCode = "INVALID_DATE_RANGE"
	CodeRoomNotFound       ErrorCode = "ROOM_NOT_FOUND"
	CodeRoomExists         ErrorCode = "ROOM_EXISTS"
	CodeRoomUnavailable    ErrorCode = "ROOM_UNAVAILABLE"
	CodeGuestAlreadyActive ErrorCode = "GUEST_ALREADY_ACTIVE"
	CodeGuestNotFound      ErrorCode = "GUEST_NOT_FOUND"
	CodeStorage            ErrorCode = "STORAGE_ERROR"
)

var (
	// ErrValidation matches every input error, including invalid date
	// ranges and unknown rooms.
	ErrValidation = errors.New("validation failed")

	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomExists         = errors.New("room already exists")
	ErrRoomUnavailable    = errors.New("room unavailable")
	ErrGuestAlreadyActive = errors.New("guest already has a live booking")
	ErrGuestNotFound      = errors.New("guest has no live booking")
	ErrStorage            = errors.New("storage failure")
)

var sentinels = map[ErrorCode]error{
	CodeValidation:         ErrValidation,
	CodeInvalidDateRange:   ErrInvalidDateRange,
	CodeRoomNotFound:       ErrRoomNotFound,
	CodeRoomExists:         ErrRoomExists,
	CodeRoomUnavailable:    ErrRoomUnavailable,
	CodeGuestAlreadyActive: ErrGuestAlreadyActive,
	CodeGuestNotFound:      ErrGuestNotFound,
	CodeStorage:            ErrStorage,
}

// AppError carries a code, a message fit for an end user and an optional
// underlying cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's code. Input-error codes
// also match ErrValidation.
func (e *AppError) Is(target error) bool {
	if target == sentinels[e.Code] {
		return true
	}
	return target == ErrValidation && isValidationCode(e.Code)
}

func isValidationCode(code ErrorCode) bool {
	switch code {
	case CodeValidation, CodeInvalidDateRange, CodeRoomNotFound, CodeRoomExists:
		return true
	}
	return false
}

// New builds an AppError.
func New(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Newf builds an AppError with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a driver or transaction failure.
func Storage(op string, err error) *AppError {
	return &AppError{Code: CodeStorage, Message: op, Err: err}
}

// CodeOf returns the code of the first AppError in err's chain, or
// CodeStorage for any other non-nil error.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStorage
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Code == CodeStorage {
			return "storage failure, please retry"
		}
		return appErr.Message
	}
	return "internal error"
}
