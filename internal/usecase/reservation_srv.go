package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/pkg/apperr"
	"movie-booking/pkg/payment"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService orchestrates the hold -> payment -> booking flow. Seats
// are never locked across the payment call: the hold TTL bounds how long a
// slow or abandoned payment can keep seats off the market.
type ReservationService interface {
	StartHold(ctx context.Context, userID uuid.UUID, req *request.CreateHoldRequest) (*response.HoldResponse, error)
	CreateIntent(ctx context.Context, userID uuid.UUID, req *request.CreateIntentRequest) (*response.PaymentIntentResponse, error)

	// CompletePayment verifies the payment proof, books the held seats and
	// writes the booking. Calling it again with the same hold token returns
	// the booking created the first time.
	CompletePayment(ctx context.Context, userID uuid.UUID, token string, req *request.ConfirmHoldRequest) (*response.BookingResponse, error)

	// Abandon releases a hold before its TTL. Releasing an already-released
	// or expired hold is a no-op.
	Abandon(ctx context.Context, userID uuid.UUID, token string) error
}

type reservationService struct {
	repo      *repository.Repository
	config    *utils.Config
	inventory InventoryService
	ledger    LedgerService
	gateway   payment.Gateway
	log       *zap.Logger
}

func NewReservationService(repo *repository.Repository, config *utils.Config, inventory InventoryService, ledger LedgerService, gateway payment.Gateway, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:      repo,
		config:    config,
		inventory: inventory,
		ledger:    ledger,
		gateway:   gateway,
		log:       log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) StartHold(ctx context.Context, userID uuid.UUID, req *request.CreateHoldRequest) (*response.HoldResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create hold validation failed", zap.Any("errors", errs))
		return nil, apperr.New(apperr.KindValidation, "%s", utils.FormatValidationErrors(errs))
	}

	if max := s.config.Hold.MaxSeats; max > 0 && len(req.SeatIDs) > max {
		return nil, apperr.New(apperr.KindValidation, "cannot hold more than %d seats", max)
	}
	seen := make(map[string]struct{}, len(req.SeatIDs))
	for _, label := range req.SeatIDs {
		if _, dup := seen[label]; dup {
			return nil, apperr.New(apperr.KindValidation, "duplicate seat %s in request", label)
		}
		seen[label] = struct{}{}
	}

	showingID, err := utils.ParseUUID(req.ShowingID)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid showing ID %s", req.ShowingID)
	}

	showing, err := s.repo.Showing.FindByID(ctx, showingID)
	if err != nil {
		return nil, fmt.Errorf("find showing: %w", err)
	}
	if showing == nil {
		return nil, apperr.New(apperr.KindNotFound, "showing %s not found", req.ShowingID)
	}
	if showing.StartsAt().Before(time.Now()) {
		return nil, apperr.New(apperr.KindValidation, "showing has already started")
	}

	seats, err := s.repo.Seat.FindByLabels(ctx, showingID, req.SeatIDs)
	if err != nil {
		return nil, fmt.Errorf("find requested seats: %w", err)
	}
	if len(seats) != len(req.SeatIDs) {
		return nil, apperr.New(apperr.KindValidation, "request contains unknown seat labels")
	}

	token := utils.GenerateHoldToken()
	expiresAt := time.Now().Add(s.config.Hold.TTL)

	if err := s.inventory.HoldSeats(ctx, showingID, req.SeatIDs, token, expiresAt); err != nil {
		return nil, err
	}

	hold := &entity.Hold{
		BaseSimple: entity.NewBaseSimple(),
		Token:      token,
		ShowingID:  showingID,
		UserID:     userID,
		SeatLabels: req.SeatIDs,
		Status:     entity.HoldActive,
		ExpiresAt:  expiresAt,
	}
	if err := s.repo.Hold.Create(ctx, hold); err != nil {
		// Seats were taken but the lease record failed; give them back.
		if _, relErr := s.inventory.ReleaseSeats(ctx, token); relErr != nil {
			s.log.Error("Compensating release failed", zap.String("token", token.String()), zap.Error(relErr))
		}
		return nil, fmt.Errorf("create hold: %w", err)
	}

	var total float64
	for _, seat := range seats {
		total += seat.Price
	}

	s.log.Info("Hold created",
		zap.String("token", token.String()),
		zap.String("showing_id", req.ShowingID),
		zap.Strings("seats", req.SeatIDs),
		zap.Float64("total", total),
	)

	resp := response.HoldToResponse(hold, total)
	return &resp, nil
}

func (s *reservationService) CreateIntent(ctx context.Context, userID uuid.UUID, req *request.CreateIntentRequest) (*response.PaymentIntentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.New(apperr.KindValidation, "%s", utils.FormatValidationErrors(errs))
	}

	hold, err := s.ownedActiveHold(ctx, userID, req.HoldToken)
	if err != nil {
		return nil, err
	}

	total, err := s.holdTotal(ctx, hold)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, total, "INR", map[string]string{
		"hold_token": hold.Token.String(),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, err, "create payment intent")
	}

	return &response.PaymentIntentResponse{
		IntentID:     intent.ID,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
		ClientParams: intent.ClientParams,
	}, nil
}

func (s *reservationService) CompletePayment(ctx context.Context, userID uuid.UUID, token string, req *request.ConfirmHoldRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.New(apperr.KindValidation, "%s", utils.FormatValidationErrors(errs))
	}

	holdToken, err := utils.ParseUUID(token)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid hold token %s", token)
	}

	hold, err := s.repo.Hold.FindByToken(ctx, holdToken)
	if err != nil {
		return nil, fmt.Errorf("find hold: %w", err)
	}
	if hold == nil {
		return nil, apperr.New(apperr.KindNotFound, "hold %s not found", token)
	}
	if hold.UserID != userID {
		return nil, apperr.New(apperr.KindForbidden, "hold belongs to another user")
	}

	switch hold.Status {
	case entity.HoldConfirmed:
		// Retry of a completed confirmation. The seats are already booked;
		// if the ledger write never landed, recoverBooking replays it.
		return s.recoverBooking(ctx, hold, req)
	case entity.HoldReleased, entity.HoldExpired:
		return nil, apperr.New(apperr.KindExpired, "hold %s is no longer active", token)
	}
	if hold.Expired(time.Now()) {
		return nil, apperr.New(apperr.KindExpired, "hold %s expired", token)
	}

	total, err := s.holdTotal(ctx, hold)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.Verify(ctx, req.IntentID, req.Proof)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, err, "verify payment")
	}
	if !result.Success || result.AmountPaid < total {
		// Failed payment frees the seats immediately instead of waiting
		// for the TTL.
		s.releaseHold(ctx, hold)
		s.log.Warn("Payment declined",
			zap.String("token", token),
			zap.String("intent_id", req.IntentID),
		)
		return nil, apperr.New(apperr.KindUpstream, "payment was declined")
	}

	labels, err := s.inventory.ConfirmSeats(ctx, holdToken)
	if err != nil {
		if apperr.Is(err, apperr.KindExpired) {
			// Paid but the hold lapsed before confirmation. The money must
			// go back; seats are already back on the market.
			s.log.Error("Payment captured for expired hold, refund required",
				zap.String("token", token),
				zap.String("intent_id", req.IntentID),
			)
		}
		return nil, err
	}

	if ok, err := s.repo.Hold.UpdateStatus(ctx, holdToken, entity.HoldActive, entity.HoldConfirmed); err != nil {
		return nil, fmt.Errorf("confirm hold: %w", err)
	} else if !ok {
		// A concurrent confirmation won the CAS; surface its booking.
		return s.recoverBooking(ctx, hold, req)
	}

	booking, err := s.ledger.CreateFromHold(ctx, hold, labels, req.PaymentMethod, req.IntentID, total)
	if err != nil {
		// Seats are booked and the hold is confirmed; a retry of this call
		// replays the ledger write through recoverBooking.
		s.log.Error("Ledger write failed after seat confirmation",
			zap.String("token", token),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("Booking confirmed",
		zap.String("token", token),
		zap.String("booking_id", booking.BookingID),
		zap.Float64("total", total),
	)

	return booking, nil
}

func (s *reservationService) Abandon(ctx context.Context, userID uuid.UUID, token string) error {
	holdToken, err := utils.ParseUUID(token)
	if err != nil {
		return apperr.New(apperr.KindValidation, "invalid hold token %s", token)
	}

	hold, err := s.repo.Hold.FindByToken(ctx, holdToken)
	if err != nil {
		return fmt.Errorf("find hold: %w", err)
	}
	if hold == nil {
		return apperr.New(apperr.KindNotFound, "hold %s not found", token)
	}
	if hold.UserID != userID {
		return apperr.New(apperr.KindForbidden, "hold belongs to another user")
	}
	if hold.Status == entity.HoldConfirmed {
		return apperr.New(apperr.KindIllegalTransition, "hold %s is already confirmed", token)
	}

	s.releaseHold(ctx, hold)
	return nil
}

// releaseHold frees the seats and retires the lease. Best effort on the
// status row; the seat states are what matters.
func (s *reservationService) releaseHold(ctx context.Context, hold *entity.Hold) {
	if _, err := s.inventory.ReleaseSeats(ctx, hold.Token); err != nil {
		s.log.Error("Seat release failed", zap.String("token", hold.Token.String()), zap.Error(err))
		return
	}
	if _, err := s.repo.Hold.UpdateStatus(ctx, hold.Token, entity.HoldActive, entity.HoldReleased); err != nil {
		s.log.Error("Hold status update failed", zap.String("token", hold.Token.String()), zap.Error(err))
	}
}

func (s *reservationService) ownedActiveHold(ctx context.Context, userID uuid.UUID, token string) (*entity.Hold, error) {
	holdToken, err := utils.ParseUUID(token)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid hold token %s", token)
	}

	hold, err := s.repo.Hold.FindByToken(ctx, holdToken)
	if err != nil {
		return nil, fmt.Errorf("find hold: %w", err)
	}
	if hold == nil {
		return nil, apperr.New(apperr.KindNotFound, "hold %s not found", token)
	}
	if hold.UserID != userID {
		return nil, apperr.New(apperr.KindForbidden, "hold belongs to another user")
	}
	if hold.Status != entity.HoldActive || hold.Expired(time.Now()) {
		return nil, apperr.New(apperr.KindExpired, "hold %s is no longer active", token)
	}
	return hold, nil
}

func (s *reservationService) holdTotal(ctx context.Context, hold *entity.Hold) (float64, error) {
	seats, err := s.repo.Seat.FindByLabels(ctx, hold.ShowingID, hold.SeatLabels)
	if err != nil {
		return 0, fmt.Errorf("price hold seats: %w", err)
	}

	var total float64
	for _, seat := range seats {
		total += seat.Price
	}
	return total, nil
}

// recoverBooking resolves a hold whose seats are already booked. Normally
// the ledger row exists and is returned as-is. When the ledger write failed
// after seat confirmation, the row is missing and the write is replayed;
// the unique hold token keeps the replay idempotent against concurrent
// retries.
func (s *reservationService) recoverBooking(ctx context.Context, hold *entity.Hold, req *request.ConfirmHoldRequest) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByHoldToken(ctx, hold.Token)
	if err != nil {
		return nil, fmt.Errorf("find booking by hold token: %w", err)
	}
	if booking != nil {
		seats, err := s.repo.BookingSeat.FindByBookingID(ctx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("load booking seats: %w", err)
		}
		resp := bookingWithSeats(booking, seats)
		return &resp, nil
	}

	total, err := s.holdTotal(ctx, hold)
	if err != nil {
		return nil, err
	}

	s.log.Warn("Replaying ledger write for confirmed hold",
		zap.String("token", hold.Token.String()),
	)
	return s.ledger.CreateFromHold(ctx, hold, hold.SeatLabels, req.PaymentMethod, req.IntentID, total)
}

func bookingWithSeats(booking *entity.Booking, seats []*entity.BookingSeat) response.BookingResponse {
	out := make([]entity.BookingSeat, 0, len(seats))
	for _, seat := range seats {
		out = append(out, *seat)
	}
	return response.BookingToResponse(booking, out)
}
