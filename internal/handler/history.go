package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

// ListHistory handles GET /history
func (h *HotelHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.BookingHistory(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// PurgeGuestHistory handles DELETE /history/{guestId}
func (h *HotelHandler) PurgeGuestHistory(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.PurgeGuestHistory(r.Context(), chi.URLParam(r, "guestId"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PurgeResult{Deleted: n})
}

// PurgeAllHistory handles DELETE /history
func (h *HotelHandler) PurgeAllHistory(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.PurgeAllHistory(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PurgeResult{Deleted: n})
}
