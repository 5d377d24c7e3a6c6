package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

// CheckIn handles POST /bookings/check-in
// Books a room for a guest. The booking is active at once when the stay
// has started and pending otherwise.
func (h *HotelHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req model.CheckInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.svc.CheckIn(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.OperationResult{
		Success: true,
		Message: fmt.Sprintf("guest %s booked room %d (%s)", booking.GuestID, booking.RoomNumber, booking.Status),
		Booking: booking,
	})
}

// ValidateBooking handles POST /bookings/validate
// Answers whether a check-in would succeed without making it.
func (h *HotelHandler) ValidateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.CheckInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.ValidateBooking(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetBooking handles GET /bookings/{guestId}
func (h *HotelHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svc.GetBooking(r.Context(), chi.URLParam(r, "guestId"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// CheckOut handles POST /bookings/{guestId}/check-out
func (h *HotelHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svc.CheckOut(r.Context(), chi.URLParam(r, "guestId"))
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.OperationResult{
		Success: true,
		Message: fmt.Sprintf("guest %s checked out of room %d", booking.GuestID, booking.RoomNumber),
		Booking: booking,
	})
}

// Today handles GET /clock
func (h *HotelHandler) Today(w http.ResponseWriter, r *http.Request) {
	today, err := h.svc.Today(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.Clock{Today: model.FormatDate(today)})
}

// AdvanceDate handles POST /clock/advance
// Moves the simulated date forward and reconciles bookings and rooms.
func (h *HotelHandler) AdvanceDate(w http.ResponseWriter, r *http.Request) {
	var req model.AdvanceDateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	stats, err := h.svc.AdvanceDate(r.Context(), req)
	if err != nil {
		writeJSON(w, statusOf(err), model.AdvanceResult{Success: false, Message: apperror.MessageOf(err)})
		return
	}

	writeJSON(w, http.StatusOK, model.AdvanceResult{
		Success: true,
		Message: "date advanced to " + model.FormatDate(stats.Date),
		Stats:   &stats,
	})
}
