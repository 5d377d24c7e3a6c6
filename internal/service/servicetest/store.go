// Package servicetest provides an in-memory store for exercising the
// service and handler layers without Postgres. Its date advance mirrors the
// step order and predicates of the repository's advance batch and has to be
// kept in line with it.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/repository"
)

// Store implements the service's room, booking, history and clock
// dependencies over plain maps guarded by one mutex, which plays the part
// of the database transaction.
type Store struct {
	mu       sync.Mutex
	today    time.Time
	rooms    map[int]*model.Room
	bookings []*model.Booking
	history  []model.BookingHistoryRecord
	seq      int

	// Fail, when set, is returned wrapped as a storage error by every call.
	Fail error
}

// NewStore returns a store whose clock reads today and which holds the
// given rooms, all free.
func NewStore(today time.Time, rooms ...int) *Store {
	s := &Store{today: today, rooms: map[int]*model.Room{}}
	for _, n := range rooms {
		s.rooms[n] = &model.Room{Number: n, Type: model.RoomStandard, Status: model.RoomFree}
	}
	return s
}

func (s *Store) failure(op string) error {
	if s.Fail != nil {
		return apperror.Storage(op, s.Fail)
	}
	return nil
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// Snapshot returns copies of every room, booking and history record.
func (s *Store) Snapshot() ([]model.Room, []model.Booking, []model.BookingHistoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := s.sortedRooms(func(*model.Room) bool { return true })
	bookings := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		bookings = append(bookings, *b)
	}
	history := append([]model.BookingHistoryRecord(nil), s.history...)
	return rooms, bookings, history
}

func (s *Store) sortedRooms(keep func(*model.Room) bool) []model.Room {
	rooms := []model.Room{}
	for _, r := range s.rooms {
		if keep(r) {
			rooms = append(rooms, *r)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })
	return rooms
}

func (s *Store) Create(_ context.Context, number int, roomType model.RoomType) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("insert room"); err != nil {
		return nil, err
	}
	if _, ok := s.rooms[number]; ok {
		return nil, apperror.Newf(apperror.CodeRoomExists, "room %d already exists", number)
	}
	room := &model.Room{Number: number, Type: roomType, Status: model.RoomFree, UpdatedAt: time.Now().UTC()}
	s.rooms[number] = room
	copied := *room
	return &copied, nil
}

func (s *Store) List(_ context.Context) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("list rooms"); err != nil {
		return nil, err
	}
	return s.sortedRooms(func(*model.Room) bool { return true }), nil
}

func (s *Store) ListByStatus(_ context.Context, status model.RoomStatus) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("list rooms by status"); err != nil {
		return nil, err
	}
	return s.sortedRooms(func(r *model.Room) bool { return r.Status == status }), nil
}

func (s *Store) GetByNumber(_ context.Context, number int) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("get room"); err != nil {
		return nil, err
	}
	room, ok := s.rooms[number]
	if !ok {
		return nil, apperror.Newf(apperror.CodeRoomNotFound, "room %d does not exist", number)
	}
	copied := *room
	return &copied, nil
}

func (s *Store) Today(_ context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("read clock"); err != nil {
		return time.Time{}, err
	}
	return s.today, nil
}

func (s *Store) available(room int, stay model.Interval) bool {
	for _, b := range s.bookings {
		if b.RoomNumber == room && b.Status.IsLive() && stay.Overlaps(b.Interval()) {
			return false
		}
	}
	return true
}

func (s *Store) live(guestID string) *model.Booking {
	for _, b := range s.bookings {
		if b.GuestID == guestID && b.Status.IsLive() {
			return b
		}
	}
	return nil
}

func (s *Store) syncRoom(number int) {
	room := s.rooms[number]
	room.Status, room.CurrentGuest = model.RoomFree, nil
	var latest *model.Booking
	for _, b := range s.bookings {
		if b.RoomNumber == number && b.Status == model.BookingActive && (latest == nil || b.CheckIn.After(latest.CheckIn)) {
			latest = b
		}
	}
	if latest != nil {
		guest := latest.GuestID
		room.Status, room.CurrentGuest = model.RoomOccupied, &guest
	}
}

func transition(b *model.Booking, next model.BookingStatus, explicit bool) {
	if !b.Status.CanTransitionTo(next, explicit) {
		panic(fmt.Sprintf("booking %s: illegal transition %s -> %s", b.ID, b.Status, next))
	}
	b.Status = next
	b.UpdatedAt = time.Now().UTC()
}

func (s *Store) hasActive(number int) bool {
	for _, b := range s.bookings {
		if b.RoomNumber == number && b.Status == model.BookingActive {
			return true
		}
	}
	return false
}

// hasStayOn reports whether room number has an active booking covering
// date, departure day included.
func (s *Store) hasStayOn(number int, date time.Time) bool {
	for _, b := range s.bookings {
		if b.RoomNumber == number && b.Status == model.BookingActive &&
			!b.CheckIn.After(date) && !b.CheckOut.Before(date) {
			return true
		}
	}
	return false
}

func (s *Store) IsAvailable(_ context.Context, room int, stay model.Interval) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("query room bookings"); err != nil {
		return false, err
	}
	if !stay.Valid() {
		return false, apperror.New(apperror.CodeInvalidDateRange, "check-in must be before check-out", nil)
	}
	return s.available(room, stay), nil
}

func (s *Store) GuestHasLiveBooking(_ context.Context, guestID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("check guest bookings"); err != nil {
		return false, err
	}
	return s.live(guestID) != nil, nil
}

func (s *Store) LiveByGuest(_ context.Context, guestID string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("get live booking"); err != nil {
		return nil, err
	}
	b := s.live(guestID)
	if b == nil {
		return nil, apperror.Newf(apperror.CodeGuestNotFound, "guest %s has no pending or active booking", guestID)
	}
	copied := *b
	return &copied, nil
}

func (s *Store) CheckIn(_ context.Context, nb repository.NewBooking) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("check in"); err != nil {
		return nil, err
	}
	if !nb.Stay.Valid() {
		return nil, apperror.New(apperror.CodeInvalidDateRange, "check-in must be before check-out", nil)
	}
	if _, ok := s.rooms[nb.RoomNumber]; !ok {
		return nil, apperror.Newf(apperror.CodeRoomNotFound, "room %d does not exist", nb.RoomNumber)
	}
	if nb.Stay.End.Before(s.today) {
		return nil, apperror.New(apperror.CodeInvalidDateRange, "stay is already over", nil)
	}
	if s.live(nb.GuestID) != nil {
		return nil, apperror.Newf(apperror.CodeGuestAlreadyActive, "guest %s already has a pending or active booking", nb.GuestID)
	}
	if !s.available(nb.RoomNumber, nb.Stay) {
		return nil, apperror.Newf(apperror.CodeRoomUnavailable, "room %d is already booked", nb.RoomNumber)
	}

	now := time.Now().UTC()
	b := &model.Booking{
		ID: s.nextID("booking"), GuestID: nb.GuestID, RoomNumber: nb.RoomNumber,
		CheckIn: nb.Stay.Start, CheckOut: nb.Stay.End, Status: model.InitialStatus(nb.Stay.Start, s.today),
		GuestName: nb.GuestName, GuestEmail: nb.GuestEmail, GuestPhone: nb.GuestPhone,
		CreatedAt: now, UpdatedAt: now,
	}
	s.bookings = append(s.bookings, b)
	if b.Status == model.BookingActive {
		s.syncRoom(b.RoomNumber)
	}
	s.history = append(s.history, model.BookingHistoryRecord{
		ID: s.nextID("history"), RoomNumber: b.RoomNumber, GuestID: b.GuestID,
		CheckIn: b.CheckIn, CheckOut: b.CheckOut, BookedAt: now,
	})
	copied := *b
	return &copied, nil
}

func (s *Store) CheckOut(_ context.Context, guestID string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("check out"); err != nil {
		return nil, err
	}
	b := s.live(guestID)
	if b == nil {
		return nil, apperror.Newf(apperror.CodeGuestNotFound, "guest %s has no pending or active booking", guestID)
	}
	transition(b, model.BookingCheckedOut, true)
	s.syncRoom(b.RoomNumber)
	copied := *b
	return &copied, nil
}

// AdvanceDate replays the repository's advance batch step by step with the
// same predicates. A change to those steps must be made here too.
func (s *Store) AdvanceDate(_ context.Context, date time.Time) (model.AdvanceStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("advance date"); err != nil {
		return model.AdvanceStats{}, err
	}
	if date.Before(s.today) {
		return model.AdvanceStats{}, apperror.New(apperror.CodeInvalidDateRange, "cannot move the date back", nil)
	}

	stats := model.AdvanceStats{Date: date}
	for _, b := range s.bookings {
		if b.Status == model.BookingPending && !b.CheckIn.After(date) {
			transition(b, model.BookingActive, false)
			stats.CheckedIn++
		}
	}
	for number, room := range s.rooms {
		if room.Status == model.RoomFree && s.hasStayOn(number, date) {
			s.syncRoom(number)
			stats.Occupied++
		}
	}
	for _, b := range s.bookings {
		if b.Status == model.BookingActive && b.CheckOut.Before(date) {
			transition(b, model.BookingCheckedOut, false)
			stats.CheckedOut++
		}
	}
	for number, room := range s.rooms {
		if room.Status == model.RoomOccupied && !s.hasActive(number) {
			s.syncRoom(number)
			stats.Freed++
		}
	}
	for number, room := range s.rooms {
		if room.Status == model.RoomOccupied {
			s.syncRoom(number)
		}
	}
	s.today = date
	return stats, nil
}

func (s *Store) historyWhere(keep func(model.BookingHistoryRecord) bool) []model.BookingHistoryRecord {
	records := []model.BookingHistoryRecord{}
	for i := len(s.history) - 1; i >= 0; i-- {
		if keep(s.history[i]) {
			records = append(records, s.history[i])
		}
	}
	return records
}

func (s *Store) ListHistory(_ context.Context) ([]model.BookingHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("list history"); err != nil {
		return nil, err
	}
	return s.historyWhere(func(model.BookingHistoryRecord) bool { return true }), nil
}

func (s *Store) ListByRoom(_ context.Context, room int) ([]model.BookingHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("list room history"); err != nil {
		return nil, err
	}
	return s.historyWhere(func(h model.BookingHistoryRecord) bool { return h.RoomNumber == room }), nil
}

func (s *Store) PurgeGuest(_ context.Context, guestID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("purge guest history"); err != nil {
		return 0, err
	}
	kept := s.history[:0]
	var n int64
	for _, h := range s.history {
		if h.GuestID == guestID {
			n++
			continue
		}
		kept = append(kept, h)
	}
	s.history = kept
	return n, nil
}

func (s *Store) PurgeAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("purge history"); err != nil {
		return 0, err
	}
	n := int64(len(s.history))
	s.history = nil
	return n, nil
}

// History adapts the store to the service's history dependency, whose List
// method clashes with the room listing.
func (s *Store) History() *HistoryView {
	return &HistoryView{s}
}

// HistoryView exposes the history half of a Store.
type HistoryView struct{ s *Store }

func (h *HistoryView) List(ctx context.Context) ([]model.BookingHistoryRecord, error) {
	return h.s.ListHistory(ctx)
}

func (h *HistoryView) ListByRoom(ctx context.Context, room int) ([]model.BookingHistoryRecord, error) {
	return h.s.ListByRoom(ctx, room)
}

func (h *HistoryView) PurgeGuest(ctx context.Context, guestID string) (int64, error) {
	return h.s.PurgeGuest(ctx, guestID)
}

func (h *HistoryView) PurgeAll(ctx context.Context) (int64, error) {
	return h.s.PurgeAll(ctx)
}
