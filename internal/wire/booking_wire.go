package wire

import (
	"github.com/SawLinThant/hotel-management-backend-api/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, log *zap.Logger) {
	r.Route("/bookings", func(r chi.Router) {
		// Guests act on their own bookings, the service scopes them
		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/", bookingHandler.GetBookings)
		r.Get("/stats", bookingHandler.GetStats)
		r.Get("/code/{code}", bookingHandler.GetBookingByCode)
		r.Get("/{id}", bookingHandler.GetBookingByID)
		r.Put("/{id}", bookingHandler.UpdateBooking)
		r.Post("/{id}/cancel", bookingHandler.CancelBooking)

		// Front desk
		r.Group(func(r chi.Router) {
			r.Use(staffOnly(log))

			r.Get("/arrivals", bookingHandler.GetArrivals)
			r.Get("/departures", bookingHandler.GetDepartures)
			r.Delete("/{id}", bookingHandler.DeleteBooking)
			r.Post("/{id}/check-in", bookingHandler.CheckIn)
			r.Post("/{id}/check-out", bookingHandler.CheckOut)
		})
	})
}
