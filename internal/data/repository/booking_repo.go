package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicateHoldToken signals that a booking already exists for the hold
// token. Callers refetch the existing record instead of failing.
var ErrDuplicateHoldToken = errors.New("booking already exists for hold token")

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByBookingID(ctx context.Context, bookingID string) (*entity.Booking, error)
	FindByHoldToken(ctx context.Context, token uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus) (int64, error)

	// UpdateStatus performs a compare-and-set on the booking status so that
	// concurrent transitions cannot both win. paymentStatus is applied when
	// non-empty.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, paymentStatus entity.PaymentStatus) (bool, error)

	// Stats aggregates the ledger in one query so the numbers are mutually
	// consistent.
	Stats(ctx context.Context, userID *uuid.UUID) (*entity.BookingStats, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booking_id, hold_token, showing_id, user_id, total_amount, payment_method, status, payment_status, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.BookingID,
		&booking.HoldToken,
		&booking.ShowingID,
		&booking.UserID,
		&booking.TotalAmount,
		&booking.PaymentMethod,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, booking_id, hold_token, showing_id, user_id, total_amount, payment_method, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.BookingID,
		booking.HoldToken,
		booking.ShowingID,
		booking.UserID,
		booking.TotalAmount,
		booking.PaymentMethod,
		booking.Status,
		booking.PaymentStatus,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		// Unique index on hold_token makes create idempotent per hold.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateHoldToken
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.BookingID),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByBookingID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by public ID",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return nil, fmt.Errorf("find booking by public ID %s: %w", bookingID, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByHoldToken(ctx context.Context, token uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE hold_token = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, token))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by hold token",
			zap.Error(err),
			zap.String("hold_token", token.String()),
		)
		return nil, fmt.Errorf("find booking by hold token %s: %w", token.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, string(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND ($2 = '' OR status = $2)`

	var count int64
	err := r.db.QueryRow(ctx, query, userID, string(status)).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, paymentStatus entity.PaymentStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3,
		    payment_status = CASE WHEN $4 = '' THEN payment_status ELSE $4::text END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to, string(paymentStatus))
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(to)),
		)
		return false, fmt.Errorf("update booking %s status to %s: %w", id.String(), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) Stats(ctx context.Context, userID *uuid.UUID) (*entity.BookingStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount) FILTER (WHERE status <> 'cancelled'), 0),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'confirmed'),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM bookings
		WHERE ($1::uuid IS NULL OR user_id = $1)
	`

	var stats entity.BookingStats
	var pending, confirmed, completed, cancelled int64

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.TotalBookings,
		&stats.TotalRevenue,
		&pending,
		&confirmed,
		&completed,
		&cancelled,
	)
	if err != nil {
		r.log.Error("Failed to aggregate booking stats", zap.Error(err))
		return nil, fmt.Errorf("aggregate booking stats: %w", err)
	}

	stats.CountByStatus = map[entity.BookingStatus]int64{
		entity.BookingStatusPending:   pending,
		entity.BookingStatusConfirmed: confirmed,
		entity.BookingStatusCompleted: completed,
		entity.BookingStatusCancelled: cancelled,
	}

	return &stats, nil
}
