package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/repository"
)

// CheckIn validates the request and delegates the transactional check-in
// to the repository layer. Business failures come back as AppErrors with
// codes INVALID_DATE_RANGE, ROOM_NOT_FOUND, GUEST_ALREADY_ACTIVE or
// ROOM_UNAVAILABLE, checked in that order, and leave no trace in the store.
func (s *HotelService) CheckIn(ctx context.Context, req model.CheckInRequest) (*model.Booking, error) {
	defer s.metrics.ObserveSince("check_in", time.Now())

	booking, err := s.checkIn(ctx, normalizeCheckIn(req))
	s.metrics.CheckIns.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		s.logFailure("check-in rejected", err, "guest_id", req.GuestID, "room", req.RoomNumber)
		return nil, err
	}

	s.invalidateRooms(ctx)
	s.log.Info("guest checked in",
		"guest_id", booking.GuestID, "room", booking.RoomNumber, "status", booking.Status,
		"check_in", model.FormatDate(booking.CheckIn), "check_out", model.FormatDate(booking.CheckOut))
	return booking, nil
}

func (s *HotelService) checkIn(ctx context.Context, req model.CheckInRequest) (*model.Booking, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}
	stay, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	return s.bookings.CheckIn(ctx, repository.NewBooking{
		GuestID:    req.GuestID,
		RoomNumber: req.RoomNumber,
		Stay:       stay,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
	})
}

// CheckOut ends the guest's live booking and frees the room.
func (s *HotelService) CheckOut(ctx context.Context, guestID string) (*model.Booking, error) {
	defer s.metrics.ObserveSince("check_out", time.Now())

	guestID = strings.TrimSpace(guestID)
	var (
		booking *model.Booking
		err     error
	)
	if guestID == "" {
		err = apperror.New(apperror.CodeValidation, "guest_id is required", nil)
	} else {
		booking, err = s.bookings.CheckOut(ctx, guestID)
	}
	s.metrics.CheckOuts.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		s.logFailure("check-out rejected", err, "guest_id", guestID)
		return nil, err
	}

	s.invalidateRooms(ctx)
	s.log.Info("guest checked out", "guest_id", guestID, "room", booking.RoomNumber)
	return booking, nil
}

// ValidateBooking answers whether CheckIn would accept req right now,
// without changing anything. Input errors are reported in the result;
// only storage failures are returned as errors.
func (s *HotelService) ValidateBooking(ctx context.Context, req model.CheckInRequest) (model.BookingValidation, error) {
	req = normalizeCheckIn(req)

	if err := s.validateStruct(req); err != nil {
		return model.BookingValidation{Message: apperror.MessageOf(err)}, nil
	}
	stay, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return model.BookingValidation{Message: apperror.MessageOf(err)}, nil
	}

	if _, err := s.rooms.GetByNumber(ctx, req.RoomNumber); err != nil {
		if apperror.CodeOf(err) == apperror.CodeRoomNotFound {
			return model.BookingValidation{Message: apperror.MessageOf(err)}, nil
		}
		return s.validationFailed(err)
	}
	today, err := s.clock.Today(ctx)
	if err != nil {
		return s.validationFailed(err)
	}
	if stay.End.Before(today) {
		return model.BookingValidation{
			Message: fmt.Sprintf("stay ending %s is already over (today is %s)",
				model.FormatDate(stay.End), model.FormatDate(today)),
		}, nil
	}

	guestActive, err := s.bookings.GuestHasLiveBooking(ctx, req.GuestID)
	if err != nil {
		return s.validationFailed(err)
	}
	available, err := s.bookings.IsAvailable(ctx, req.RoomNumber, stay)
	if err != nil {
		return s.validationFailed(err)
	}

	result := model.BookingValidation{
		Valid:              available && !guestActive,
		RoomAvailable:      available,
		GuestAlreadyActive: guestActive,
	}

	var problems []string
	if guestActive {
		problems = append(problems, fmt.Sprintf("guest %s already has a pending or active booking", req.GuestID))
	}
	if !available {
		problems = append(problems, fmt.Sprintf("room %d is already booked between %s and %s",
			req.RoomNumber, req.CheckIn, req.CheckOut))
	}
	if len(problems) == 0 {
		result.Message = "booking is valid"
	} else {
		result.Message = strings.Join(problems, "; ")
	}
	return result, nil
}

func (s *HotelService) validationFailed(err error) (model.BookingValidation, error) {
	s.logFailure("booking validation failed", err)
	return model.BookingValidation{Message: apperror.MessageOf(err)}, err
}

// IsRoomAvailable reports whether room is free over [checkIn, checkOut).
// On a storage failure it answers false together with the error.
func (s *HotelService) IsRoomAvailable(ctx context.Context, room int, checkIn, checkOut string) (bool, error) {
	if err := validRoomNumber(room); err != nil {
		return false, err
	}
	stay, err := parseStay(checkIn, checkOut)
	if err != nil {
		return false, err
	}
	if _, err := s.rooms.GetByNumber(ctx, room); err != nil {
		s.logFailure("availability check failed", err, "room", room)
		return false, err
	}

	available, err := s.bookings.IsAvailable(ctx, room, stay)
	if err != nil {
		s.logFailure("availability check failed", err, "room", room)
		return false, err
	}
	return available, nil
}

// GetBooking returns the guest's pending or active booking.
func (s *HotelService) GetBooking(ctx context.Context, guestID string) (*model.Booking, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil, apperror.New(apperror.CodeValidation, "guest_id is required", nil)
	}
	booking, err := s.bookings.LiveByGuest(ctx, guestID)
	if err != nil {
		s.logFailure("booking lookup failed", err, "guest_id", guestID)
		return nil, err
	}
	return booking, nil
}
