package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/internal/events"
	"movie-booking/pkg/apperr"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService is the append-only record of confirmed bookings and their
// status transitions.
type LedgerService interface {
	// CreateFromHold writes the booking for a confirmed hold. The hold token
	// is the idempotency key: a second call for the same hold returns the
	// booking written by the first.
	CreateFromHold(ctx context.Context, hold *entity.Hold, labels []string, paymentMethod, intentID string, total float64) (*response.BookingResponse, error)

	GetBooking(ctx context.Context, userID uuid.UUID, role string, id string) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, userID uuid.UUID, status string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// UpdateStatus applies an admin status transition. Cancelling a booking
	// returns its seats to the pool and marks the payment refunded.
	UpdateStatus(ctx context.Context, id string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)

	// Stats aggregates the ledger; a nil userID aggregates all users.
	Stats(ctx context.Context, userID *uuid.UUID) (*response.BookingStatsResponse, error)
}

type ledgerService struct {
	repo      *repository.Repository
	inventory InventoryService
	publisher events.Publisher
	log       *zap.Logger
}

func NewLedgerService(repo *repository.Repository, inventory InventoryService, publisher events.Publisher, log *zap.Logger) LedgerService {
	return &ledgerService{
		repo:      repo,
		inventory: inventory,
		publisher: publisher,
		log:       log.With(zap.String("service", "ledger")),
	}
}

func (s *ledgerService) CreateFromHold(ctx context.Context, hold *entity.Hold, labels []string, paymentMethod, intentID string, total float64) (*response.BookingResponse, error) {
	booking := &entity.Booking{
		Base:          entity.NewBase(),
		BookingID:     utils.GenerateBookingID(),
		HoldToken:     hold.Token,
		ShowingID:     hold.ShowingID,
		UserID:        hold.UserID,
		TotalAmount:   total,
		PaymentMethod: paymentMethod,
		Status:        entity.BookingStatusConfirmed,
		PaymentStatus: entity.PaymentStatusSuccess,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicateHoldToken) {
			return s.byHoldToken(ctx, hold.Token)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	seats, err := s.repo.Seat.FindByLabels(ctx, hold.ShowingID, labels)
	if err != nil {
		return nil, fmt.Errorf("price booked seats: %w", err)
	}
	bookingSeats := make([]*entity.BookingSeat, 0, len(seats))
	for _, seat := range seats {
		bookingSeats = append(bookingSeats, &entity.BookingSeat{
			BaseSimple: entity.NewBaseSimple(),
			BookingID:  booking.ID,
			SeatLabel:  seat.SeatLabel,
			UnitPrice:  seat.Price,
		})
	}
	if err := s.repo.BookingSeat.CreateBatch(ctx, bookingSeats); err != nil {
		return nil, fmt.Errorf("create booking seats: %w", err)
	}

	pay := &entity.Payment{
		Base:      entity.NewBase(),
		BookingID: booking.ID,
		IntentID:  intentID,
		Amount:    total,
		Method:    paymentMethod,
		Status:    entity.PaymentStatusSuccess,
	}
	if err := s.repo.Payment.Create(ctx, pay); err != nil {
		return nil, fmt.Errorf("create payment record: %w", err)
	}

	if err := s.publisher.BookingConfirmed(ctx, events.BookingEvent{
		BookingID:   booking.BookingID,
		ShowingID:   booking.ShowingID.String(),
		UserID:      booking.UserID.String(),
		SeatLabels:  labels,
		TotalAmount: total,
		OccurredAt:  time.Now().UTC(),
	}); err != nil {
		s.log.Warn("Booking confirmed event not published", zap.String("booking_id", booking.BookingID), zap.Error(err))
	}

	resp := bookingWithSeats(booking, bookingSeats)
	return &resp, nil
}

func (s *ledgerService) byHoldToken(ctx context.Context, token uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByHoldToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find booking by hold token: %w", err)
	}
	if booking == nil {
		return nil, apperr.New(apperr.KindConflict, "duplicate hold token %s but booking not found", token)
	}
	seats, err := s.repo.BookingSeat.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("load booking seats: %w", err)
	}
	resp := bookingWithSeats(booking, seats)
	return &resp, nil
}

// resolve accepts both the internal UUID and the public BOOK- reference.
func (s *ledgerService) resolve(ctx context.Context, id string) (*entity.Booking, error) {
	if bookingID, err := utils.ParseUUID(id); err == nil {
		booking, err := s.repo.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return nil, fmt.Errorf("find booking: %w", err)
		}
		return booking, nil
	}

	booking, err := s.repo.Booking.FindByBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking by reference: %w", err)
	}
	return booking, nil
}

func (s *ledgerService) GetBooking(ctx context.Context, userID uuid.UUID, role string, id string) (*response.BookingResponse, error) {
	booking, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.New(apperr.KindNotFound, "booking %s not found", id)
	}
	if booking.UserID != userID && role != string(entity.RoleAdmin) {
		return nil, apperr.New(apperr.KindForbidden, "booking belongs to another user")
	}

	seats, err := s.repo.BookingSeat.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("load booking seats: %w", err)
	}

	resp := bookingWithSeats(booking, seats)
	return &resp, nil
}

func (s *ledgerService) ListBookings(ctx context.Context, userID uuid.UUID, status string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	var statusFilter entity.BookingStatus
	switch status {
	case "", "all":
	case string(entity.BookingStatusPending), string(entity.BookingStatusConfirmed),
		string(entity.BookingStatusCompleted), string(entity.BookingStatusCancelled):
		statusFilter = entity.BookingStatus(status)
	default:
		return nil, apperr.New(apperr.KindValidation, "unknown booking status %s", status)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, statusFilter, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	total, err := s.repo.Booking.CountByUserID(ctx, userID, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		seats, err := s.repo.BookingSeat.FindByBookingID(ctx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("load seats for booking %s: %w", booking.BookingID, err)
		}
		items = append(items, bookingWithSeats(booking, seats))
	}

	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

func (s *ledgerService) UpdateStatus(ctx context.Context, id string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.New(apperr.KindValidation, "%s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.New(apperr.KindNotFound, "booking %s not found", id)
	}

	target := entity.BookingStatus(req.Status)
	if !entity.LegalTransition(booking.Status, target) {
		return nil, apperr.New(apperr.KindIllegalTransition, "cannot move booking from %s to %s", booking.Status, target)
	}

	paymentStatus := entity.PaymentStatus("")
	if target == entity.BookingStatusCancelled {
		paymentStatus = entity.PaymentStatusRefunded
	}

	ok, err := s.repo.Booking.UpdateStatus(ctx, booking.ID, booking.Status, target, paymentStatus)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	if !ok {
		// Lost a race against another transition; report the current state.
		return nil, apperr.New(apperr.KindIllegalTransition, "booking %s changed concurrently", id)
	}

	if target == entity.BookingStatusCancelled {
		if err := s.cancelSideEffects(ctx, booking); err != nil {
			return nil, err
		}
	}

	booking.Status = target
	if paymentStatus != "" {
		booking.PaymentStatus = paymentStatus
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", booking.BookingID),
		zap.String("status", string(target)),
	)

	seats, err := s.repo.BookingSeat.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("load booking seats: %w", err)
	}

	resp := bookingWithSeats(booking, seats)
	return &resp, nil
}

// cancelSideEffects returns the seats to the pool, flips the payment row to
// refunded, and announces the cancellation.
func (s *ledgerService) cancelSideEffects(ctx context.Context, booking *entity.Booking) error {
	seats, err := s.repo.BookingSeat.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return fmt.Errorf("load booking seats: %w", err)
	}
	labels := make([]string, 0, len(seats))
	for _, seat := range seats {
		labels = append(labels, seat.SeatLabel)
	}

	if err := s.inventory.ReleaseBooked(ctx, booking.ShowingID, labels); err != nil {
		return err
	}

	if pay, err := s.repo.Payment.FindByBookingID(ctx, booking.ID); err != nil {
		s.log.Warn("Payment lookup failed on cancel", zap.String("booking_id", booking.BookingID), zap.Error(err))
	} else if pay != nil {
		if err := s.repo.Payment.UpdateStatus(ctx, pay.ID, entity.PaymentStatusRefunded); err != nil {
			s.log.Warn("Payment refund flag failed", zap.String("booking_id", booking.BookingID), zap.Error(err))
		}
	}

	if err := s.publisher.BookingCancelled(ctx, events.BookingEvent{
		BookingID:   booking.BookingID,
		ShowingID:   booking.ShowingID.String(),
		UserID:      booking.UserID.String(),
		SeatLabels:  labels,
		TotalAmount: booking.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}); err != nil {
		s.log.Warn("Booking cancelled event not published", zap.String("booking_id", booking.BookingID), zap.Error(err))
	}

	return nil
}

func (s *ledgerService) Stats(ctx context.Context, userID *uuid.UUID) (*response.BookingStatsResponse, error) {
	stats, err := s.repo.Booking.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate booking stats: %w", err)
	}

	resp := response.StatsToResponse(stats)
	return &resp, nil
}
