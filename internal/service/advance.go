package service

import (
	"context"
	"time"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

// AdvanceDate moves the simulated clock forward and reconciles all
// bookings and rooms with the new date in one batch.
func (s *HotelService) AdvanceDate(ctx context.Context, req model.AdvanceDateRequest) (model.AdvanceStats, error) {
	defer s.metrics.ObserveSince("advance_date", time.Now())

	stats, err := s.advanceDate(ctx, req)
	s.metrics.DateAdvances.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		s.logFailure("date advance failed", err, "date", req.Date)
		return model.AdvanceStats{}, err
	}

	s.metrics.Transitions.WithLabelValues("checked_in").Add(float64(stats.CheckedIn))
	s.metrics.Transitions.WithLabelValues("occupied").Add(float64(stats.Occupied))
	s.metrics.Transitions.WithLabelValues("checked_out").Add(float64(stats.CheckedOut))
	s.metrics.Transitions.WithLabelValues("freed").Add(float64(stats.Freed))

	if stats.Changed() {
		s.invalidateRooms(ctx)
	}
	s.log.Info("date advanced",
		"date", model.FormatDate(stats.Date),
		"checked_in", stats.CheckedIn, "occupied", stats.Occupied,
		"checked_out", stats.CheckedOut, "freed", stats.Freed)
	return stats, nil
}

func (s *HotelService) advanceDate(ctx context.Context, req model.AdvanceDateRequest) (model.AdvanceStats, error) {
	if err := s.validateStruct(req); err != nil {
		return model.AdvanceStats{}, err
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return model.AdvanceStats{}, apperror.New(apperror.CodeValidation, err.Error(), nil)
	}
	return s.bookings.AdvanceDate(ctx, date)
}

// Today returns the simulated current date.
func (s *HotelService) Today(ctx context.Context) (time.Time, error) {
	today, err := s.clock.Today(ctx)
	if err != nil {
		s.logFailure("clock read failed", err)
		return time.Time{}, err
	}
	return today, nil
}
