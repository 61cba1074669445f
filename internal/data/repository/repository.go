package repository

import (
	"movie-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Movie       MovieRepository
	Theater     TheaterRepository
	Showing     ShowingRepository
	Seat        SeatRepository
	Hold        HoldRepository
	Booking     BookingRepository
	BookingSeat BookingSeatRepository
	Payment     PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Movie:       NewMovieRepository(db, log),
		Theater:     NewTheaterRepository(db, log),
		Showing:     NewShowingRepository(db, log),
		Seat:        NewSeatRepository(db, log),
		Hold:        NewHoldRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		BookingSeat: NewBookingSeatRepository(db, log),
		Payment:     NewPaymentRepository(db, log),
	}
}
