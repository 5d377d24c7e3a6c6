package service

import (
	"context"
	"strings"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

// BookingHistory returns every history record, newest first. On a storage
// failure it returns an empty list along with the error.
func (s *HotelService) BookingHistory(ctx context.Context) ([]model.BookingHistoryRecord, error) {
	records, err := s.history.List(ctx)
	if err != nil {
		s.logFailure("history listing failed", err)
		return []model.BookingHistoryRecord{}, err
	}
	return records, nil
}

// RoomHistory returns the history of one room.
func (s *HotelService) RoomHistory(ctx context.Context, room int) ([]model.BookingHistoryRecord, error) {
	if err := validRoomNumber(room); err != nil {
		return []model.BookingHistoryRecord{}, err
	}
	records, err := s.history.ListByRoom(ctx, room)
	if err != nil {
		s.logFailure("room history listing failed", err, "room", room)
		return []model.BookingHistoryRecord{}, err
	}
	return records, nil
}

// PurgeGuestHistory irreversibly deletes a guest's history records.
func (s *HotelService) PurgeGuestHistory(ctx context.Context, guestID string) (int64, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return 0, apperror.New(apperror.CodeValidation, "guest_id is required", nil)
	}
	n, err := s.history.PurgeGuest(ctx, guestID)
	if err != nil {
		s.logFailure("history purge failed", err, "guest_id", guestID)
		return 0, err
	}
	s.log.Warn("guest history purged", "guest_id", guestID, "records", n)
	return n, nil
}

// PurgeAllHistory irreversibly deletes the whole booking history.
func (s *HotelService) PurgeAllHistory(ctx context.Context) (int64, error) {
	n, err := s.history.PurgeAll(ctx)
	if err != nil {
		s.logFailure("history purge failed", err)
		return 0, err
	}
	s.log.Warn("booking history purged", "records", n)
	return n, nil
}
