package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Shivanand-hulikatti/hotel-occupancy/pkg/logger"
)

// NewRouter builds the HTTP router. metrics serves GET /metrics and may be
// nil.
func NewRouter(h *HotelHandler, log logger.Logger, metrics http.Handler) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(log))             // structured access log
	r.Use(CORS)

	r.Get("/health", HealthCheck)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", h.ListRooms)
		r.Post("/", h.CreateRoom)
		r.Get("/free", h.ListFreeRooms)
		r.Get("/occupied", h.ListOccupiedRooms)
		r.Get("/{number}", h.GetRoom)
		r.Get("/{number}/availability", h.RoomAvailability)
		r.Get("/{number}/history", h.RoomHistory)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/check-in", h.CheckIn)
		r.Post("/validate", h.ValidateBooking)
		r.Get("/{guestId}", h.GetBooking)
		r.Post("/{guestId}/check-out", h.CheckOut)
	})

	r.Route("/clock", func(r chi.Router) {
		r.Get("/", h.Today)
		r.Post("/advance", h.AdvanceDate)
	})

	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.ListHistory)
		r.Delete("/", h.PurgeAllHistory)
		r.Delete("/{guestId}", h.PurgeGuestHistory)
	})

	return r
}
