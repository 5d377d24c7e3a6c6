// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/metrics"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/repository"
	"github.com/Shivanand-hulikatti/hotel-occupancy/pkg/logger"
)

// RoomStore is the room registry.
type RoomStore interface {
	Create(ctx context.Context, number int, roomType model.RoomType) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	ListByStatus(ctx context.Context, status model.RoomStatus) ([]model.Room, error)
	GetByNumber(ctx context.Context, number int) (*model.Room, error)
}

// BookingStore owns live bookings and the transactions that move rooms
// and bookings together.
type BookingStore interface {
	IsAvailable(ctx context.Context, room int, stay model.Interval) (bool, error)
	GuestHasLiveBooking(ctx context.Context, guestID string) (bool, error)
	LiveByGuest(ctx context.Context, guestID string) (*model.Booking, error)
	CheckIn(ctx context.Context, nb repository.NewBooking) (*model.Booking, error)
	CheckOut(ctx context.Context, guestID string) (*model.Booking, error)
	AdvanceDate(ctx context.Context, date time.Time) (model.AdvanceStats, error)
}

// HistoryStore reads and purges booking history.
type HistoryStore interface {
	List(ctx context.Context) ([]model.BookingHistoryRecord, error)
	ListByRoom(ctx context.Context, room int) ([]model.BookingHistoryRecord, error)
	PurgeGuest(ctx context.Context, guestID string) (int64, error)
	PurgeAll(ctx context.Context) (int64, error)
}

// Clock reads the simulated current date.
type Clock interface {
	Today(ctx context.Context) (time.Time, error)
}

// RoomCache caches room listings. It is optional.
type RoomCache interface {
	Get(ctx context.Context, view string) ([]model.Room, uint64, bool, error)
	Set(ctx context.Context, gen uint64, view string, rooms []model.Room) error
	Invalidate(ctx context.Context) error
}

// HotelService orchestrates room occupancy operations.
type HotelService struct {
	rooms    RoomStore
	bookings BookingStore
	history  HistoryStore
	clock    Clock
	cache    RoomCache
	metrics  *metrics.Metrics
	log      logger.Logger
	validate *validator.Validate
}

// NewHotelService constructs a HotelService with its dependencies. cache
// may be nil to disable room listing caching.
func NewHotelService(
	rooms RoomStore,
	bookings BookingStore,
	history HistoryStore,
	clock Clock,
	cache RoomCache,
	m *metrics.Metrics,
	log logger.Logger,
) *HotelService {
	return &HotelService{
		rooms:    rooms,
		bookings: bookings,
		history:  history,
		clock:    clock,
		cache:    cache,
		metrics:  m,
		log:      log,
		validate: newValidator(),
	}
}

// invalidateRooms retires cached room listings after a committed mutation.
// A failure is logged only: the cache TTL bounds how long it can matter.
func (s *HotelService) invalidateRooms(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("room cache invalidation failed", "error", err)
	}
}

// outcome is the metric label for the result of an operation.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(apperror.CodeOf(err)))
}

// logFailure logs expected business outcomes at warn and storage failures
// at error.
func (s *HotelService) logFailure(msg string, err error, keysAndValues ...interface{}) {
	code := apperror.CodeOf(err)
	keysAndValues = append(keysAndValues, "code", code, "error", err)
	if code == apperror.CodeStorage {
		s.log.Error(msg, keysAndValues...)
		return
	}
	s.log.Warn(msg, keysAndValues...)
}
