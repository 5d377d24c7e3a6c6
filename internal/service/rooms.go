package service

import (
	"context"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/cache"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

// CreateRoom registers a new room. Rooms start free.
func (s *HotelService) CreateRoom(ctx context.Context, req model.CreateRoomRequest) (*model.Room, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}
	roomType, err := model.ParseRoomType(req.Type)
	if err != nil {
		return nil, apperror.New(apperror.CodeValidation, err.Error(), nil)
	}

	room, err := s.rooms.Create(ctx, req.Number, roomType)
	if err != nil {
		s.logFailure("room creation failed", err, "room", req.Number)
		return nil, err
	}

	s.invalidateRooms(ctx)
	s.log.Info("room created", "room", room.Number, "type", room.Type)
	return room, nil
}

// GetRoom returns a single room.
func (s *HotelService) GetRoom(ctx context.Context, number int) (*model.Room, error) {
	if err := validRoomNumber(number); err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByNumber(ctx, number)
	if err != nil {
		s.logFailure("room lookup failed", err, "room", number)
		return nil, err
	}
	return room, nil
}

// ListRooms returns every room.
func (s *HotelService) ListRooms(ctx context.Context) ([]model.Room, error) {
	return s.listRooms(ctx, cache.ViewAll)
}

// ListFreeRooms returns the rooms with no active booking.
func (s *HotelService) ListFreeRooms(ctx context.Context) ([]model.Room, error) {
	return s.listRooms(ctx, cache.ViewFree)
}

// ListOccupiedRooms returns the rooms with an active booking.
func (s *HotelService) ListOccupiedRooms(ctx context.Context) ([]model.Room, error) {
	return s.listRooms(ctx, cache.ViewOccupied)
}

// listRooms serves a listing from the cache when possible. On a storage
// failure it returns an empty listing along with the error.
func (s *HotelService) listRooms(ctx context.Context, view string) ([]model.Room, error) {
	var (
		gen  uint64
		fill bool
	)
	if s.cache != nil {
		rooms, g, hit, err := s.cache.Get(ctx, view)
		switch {
		case err != nil:
			s.metrics.CacheLookups.WithLabelValues("error").Inc()
			s.log.Warn("room cache read failed", "view", view, "error", err)
		case hit:
			s.metrics.CacheLookups.WithLabelValues("hit").Inc()
			return rooms, nil
		default:
			s.metrics.CacheLookups.WithLabelValues("miss").Inc()
			gen, fill = g, true
		}
	}

	var (
		rooms []model.Room
		err   error
	)
	switch view {
	case cache.ViewFree:
		rooms, err = s.rooms.ListByStatus(ctx, model.RoomFree)
	case cache.ViewOccupied:
		rooms, err = s.rooms.ListByStatus(ctx, model.RoomOccupied)
	default:
		rooms, err = s.rooms.List(ctx)
	}
	if err != nil {
		s.logFailure("room listing failed", err, "view", view)
		return []model.Room{}, err
	}

	if fill {
		if err := s.cache.Set(ctx, gen, view, rooms); err != nil {
			s.log.Warn("room cache write failed", "view", view, "error", err)
		}
	}
	return rooms, nil
}
