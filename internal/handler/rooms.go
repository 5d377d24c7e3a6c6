package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

// roomNumber reads the {number} path parameter.
func roomNumber(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "number")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Newf(apperror.CodeValidation, "room number %q is not a number", raw)
	}
	return n, nil
}

// CreateRoom handles POST /rooms
func (h *HotelHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	room, err := h.svc.CreateRoom(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, room)
}

// ListRooms handles GET /rooms
func (h *HotelHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.ListRooms(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// ListFreeRooms handles GET /rooms/free
func (h *HotelHandler) ListFreeRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.ListFreeRooms(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// ListOccupiedRooms handles GET /rooms/occupied
func (h *HotelHandler) ListOccupiedRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.ListOccupiedRooms(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// GetRoom handles GET /rooms/{number}
func (h *HotelHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	number, err := roomNumber(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	room, err := h.svc.GetRoom(r.Context(), number)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// RoomAvailability handles GET /rooms/{number}/availability?check_in=&check_out=
func (h *HotelHandler) RoomAvailability(w http.ResponseWriter, r *http.Request) {
	number, err := roomNumber(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	checkIn := r.URL.Query().Get("check_in")
	checkOut := r.URL.Query().Get("check_out")

	available, err := h.svc.IsRoomAvailable(r.Context(), number, checkIn, checkOut)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Availability{
		RoomNumber: number,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Available:  available,
	})
}

// RoomHistory handles GET /rooms/{number}/history
func (h *HotelHandler) RoomHistory(w http.ResponseWriter, r *http.Request) {
	number, err := roomNumber(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	records, err := h.svc.RoomHistory(r.Context(), number)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
