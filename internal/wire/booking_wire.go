package wire

import (
	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/middleware"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	holdHandler *adaptor.HoldHandler,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// The whole reservation flow requires auth.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, repo.Session, log))

		// Holds: acquire, pay, confirm or walk away
		r.Post("/api/holds", holdHandler.CreateHold)
		r.Post("/api/holds/{token}/confirm", holdHandler.ConfirmHold)
		r.Delete("/api/holds/{token}", holdHandler.ReleaseHold)

		// Payment intent for a held reservation
		r.Post("/api/payments/intent", holdHandler.CreateIntent)

		// Booking ledger
		r.Get("/api/bookings", bookingHandler.ListBookings)
		r.Get("/api/bookings/stats/summary", bookingHandler.GetBookingStats)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
	})

	// Status transitions are an admin operation.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Patch("/api/bookings/{id}/status", bookingHandler.UpdateBookingStatus)
	})
}
