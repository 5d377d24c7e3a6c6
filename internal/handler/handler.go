// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/service"
)

// HotelHandler holds all HTTP handlers for the hotel occupancy API.
type HotelHandler struct {
	svc *service.HotelService
}

// NewHotelHandler constructs a HotelHandler.
func NewHotelHandler(svc *service.HotelService) *HotelHandler {
	return &HotelHandler{svc: svc}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// writeAppError renders err with the status its code maps to.
func writeAppError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), model.ErrorResponse{
		Error: apperror.MessageOf(err),
		Code:  string(apperror.CodeOf(err)),
	})
}

// writeFailure renders a rejected mutation as an OperationResult.
func writeFailure(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), model.OperationResult{
		Success: false,
		Message: apperror.MessageOf(err),
		Code:    string(apperror.CodeOf(err)),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// statusOf maps an error code to an HTTP status. The specific codes are
// checked before ErrValidation, which matches all input errors.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrRoomNotFound), errors.Is(err, apperror.ErrGuestNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrRoomExists),
		errors.Is(err, apperror.ErrRoomUnavailable),
		errors.Is(err, apperror.ErrGuestAlreadyActive):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrStorage):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
