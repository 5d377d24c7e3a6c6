// Package model defines the core domain types for the hotel occupancy system.
package model

import (
	"fmt"
	"strings"
	"time"
)

// RoomType is the commercial category of a room.
type RoomType string

const (
	RoomEconomy  RoomType = "Economy"
	RoomStandard RoomType = "Standard"
	RoomBusiness RoomType = "Business"
	RoomSuite    RoomType = "Suite"
)

// ParseRoomType accepts a room type name in any letter case.
func ParseRoomType(s string) (RoomType, error) {
	for _, t := range []RoomType{RoomEconomy, RoomStandard, RoomBusiness, RoomSuite} {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown room type %q", s)
}

// RoomStatus is the occupancy state of a room.
type RoomStatus string

const (
	RoomFree     RoomStatus = "free"
	RoomOccupied RoomStatus = "occupied"
)

// Room is a bookable hotel room. Status is kept in lockstep with the
// room's active bookings and is never set independently.
type Room struct {
	Number       int        `json:"number"`
	Type         RoomType   `json:"type"`
	Status       RoomStatus `json:"status"`
	CurrentGuest *string    `json:"current_guest,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingActive     BookingStatus = "active"
	BookingCheckedOut BookingStatus = "checked_out"
)

// IsLive reports whether a booking in this status still reserves its room.
func (s BookingStatus) IsLive() bool {
	return s == BookingPending || s == BookingActive
}

func (s BookingStatus) rank() int {
	switch s {
	case BookingPending:
		return 0
	case BookingActive:
		return 1
	case BookingCheckedOut:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next keeps the status
// monotonic. Skipping a state is allowed only when explicit is set, which is
// the case for a guest-initiated check-out.
func (s BookingStatus) CanTransitionTo(next BookingStatus, explicit bool) bool {
	from, to := s.rank(), next.rank()
	if from < 0 || to < 0 || to <= from {
		return false
	}
	return explicit || to == from+1
}

// Booking is a guest's stay in a room over [CheckIn, CheckOut).
type Booking struct {
	ID         string        `json:"id"`
	GuestID    string        `json:"guest_id"`
	RoomNumber int           `json:"room_number"`
	CheckIn    time.Time     `json:"check_in"`
	CheckOut   time.Time     `json:"check_out"`
	Status     BookingStatus `json:"status"`
	GuestName  string        `json:"guest_name,omitempty"`
	GuestEmail string        `json:"guest_email,omitempty"`
	GuestPhone string        `json:"guest_phone,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Interval returns the occupancy interval of the booking.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.CheckIn, End: b.CheckOut}
}

// BookingHistoryRecord is an immutable audit entry written when a booking
// is made.
type BookingHistoryRecord struct {
	ID         string    `json:"id"`
	RoomNumber int       `json:"room_number"`
	GuestID    string    `json:"guest_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	BookedAt   time.Time `json:"booked_at"`
}

// AdvanceStats counts the rows changed by one date advance.
type AdvanceStats struct {
	Date       time.Time `json:"date"`
	CheckedIn  int       `json:"checked_in_count"`
	Occupied   int       `json:"occupied_count"`
	CheckedOut int       `json:"checked_out_count"`
	Freed      int       `json:"freed_count"`
}

// Changed reports whether the advance modified any row.
func (s AdvanceStats) Changed() bool {
	return s.CheckedIn+s.Occupied+s.CheckedOut+s.Freed > 0
}

// BookingValidation is the read-only pre-flight answer for a check-in.
type BookingValidation struct {
	Valid              bool   `json:"valid"`
	RoomAvailable      bool   `json:"room_available"`
	GuestAlreadyActive bool   `json:"guest_already_active"`
	Message            string `json:"message"`
}

// CheckInRequest is the payload for a check-in or a booking validation.
type CheckInRequest struct {
	GuestID    string `json:"guest_id" validate:"required,max=64"`
	RoomNumber int    `json:"room_number" validate:"required,gt=0"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	GuestName  string `json:"guest_name,omitempty" validate:"max=128"`
	GuestEmail string `json:"guest_email,omitempty" validate:"omitempty,email"`
	GuestPhone string `json:"guest_phone,omitempty" validate:"omitempty,max=32"`
}

// CreateRoomRequest is the payload for registering a room.
type CreateRoomRequest struct {
	Number int    `json:"number" validate:"required,gt=0"`
	Type   string `json:"type" validate:"required"`
}

// AdvanceDateRequest is the payload for moving the simulated clock.
type AdvanceDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// OperationResult is the reply to a mutating operation.
type OperationResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Booking *Booking `json:"booking,omitempty"`
}

// AdvanceResult is the reply to a date advance.
type AdvanceResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Stats   *AdvanceStats `json:"stats,omitempty"`
}

// Availability is the reply to a room availability query.
type Availability struct {
	RoomNumber int    `json:"room_number"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Available  bool   `json:"available"`
}

// Clock is the reply to a simulated date query.
type Clock struct {
	Today string `json:"today"`
}

// PurgeResult is the reply to a history purge.
type PurgeResult struct {
	Deleted int64 `json:"deleted"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
