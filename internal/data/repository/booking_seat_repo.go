package repository

import (
	"context"
	"fmt"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingSeatRepository interface {
	CreateBatch(ctx context.Context, seats []*entity.BookingSeat) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingSeat, error)
}

type bookingSeatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingSeatRepository(db database.PgxIface, log *zap.Logger) BookingSeatRepository {
	return &bookingSeatRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking_seat")),
	}
}

func (r *bookingSeatRepository) CreateBatch(ctx context.Context, seats []*entity.BookingSeat) error {
	if len(seats) == 0 {
		return nil
	}

	query := `INSERT INTO booking_seats (id, booking_id, seat_label, unit_price, created_at) VALUES `
	args := []interface{}{}

	for i, seat := range seats {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			i*5+1, i*5+2, i*5+3, i*5+4, i*5+5)

		args = append(args,
			seat.ID,
			seat.BookingID,
			seat.SeatLabel,
			seat.UnitPrice,
			seat.CreatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch booking seats",
			zap.Error(err),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("create batch booking seats: %w", err)
	}

	return nil
}

func (r *bookingSeatRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingSeat, error) {
	query := `
		SELECT id, booking_id, seat_label, unit_price, created_at
		FROM booking_seats
		WHERE booking_id = $1
		ORDER BY seat_label
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking seats",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find booking seats %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.BookingSeat
	for rows.Next() {
		var seat entity.BookingSeat
		err := rows.Scan(
			&seat.ID,
			&seat.BookingID,
			&seat.SeatLabel,
			&seat.UnitPrice,
			&seat.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking seat row", zap.Error(err))
			return nil, fmt.Errorf("scan booking seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}
