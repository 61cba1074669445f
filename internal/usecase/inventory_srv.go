package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/response"
	"movie-booking/pkg/apperr"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService owns the per-showing seat state machine. All transitions
// go through conditional updates in the seat repository, so two requests
// racing for the same seat cannot both win regardless of how many instances
// run.
type InventoryService interface {
	GetSeatMap(ctx context.Context, showingID string) (*response.SeatMapResponse, error)

	// HoldSeats atomically transitions all requested seats to held. On any
	// conflict no seat changes and the error carries the losing labels.
	HoldSeats(ctx context.Context, showingID uuid.UUID, labels []string, token uuid.UUID, expiresAt time.Time) error

	// ConfirmSeats books the seats of a still-valid hold. Fails with an
	// expired error if the hold no longer owns its seats.
	ConfirmSeats(ctx context.Context, token uuid.UUID) ([]string, error)

	// ReleaseSeats frees the held seats of a hold. Safe to call twice.
	ReleaseSeats(ctx context.Context, token uuid.UUID) ([]string, error)

	// ReleaseBooked returns booked seats to the pool after a cancellation.
	ReleaseBooked(ctx context.Context, showingID uuid.UUID, labels []string) error

	// StartSweeper launches the background loop that reclaims expired holds.
	// It stops when ctx is cancelled.
	StartSweeper(ctx context.Context)

	// SweepExpired reclaims expired holds once and returns how many holds
	// were reclaimed.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

type inventoryService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewInventoryService(repo *repository.Repository, config *utils.Config, log *zap.Logger) InventoryService {
	return &inventoryService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "inventory")),
	}
}

func (s *inventoryService) GetSeatMap(ctx context.Context, showingID string) (*response.SeatMapResponse, error) {
	id, err := utils.ParseUUID(showingID)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid showing ID %s", showingID)
	}

	showing, err := s.repo.Showing.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find showing: %w", err)
	}
	if showing == nil {
		return nil, apperr.New(apperr.KindNotFound, "showing %s not found", showingID)
	}

	seats, err := s.repo.Seat.FindByShowingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load seat map: %w", err)
	}

	resp := response.SeatsToMapResponse(showingID, seats, time.Now())
	return &resp, nil
}

func (s *inventoryService) HoldSeats(ctx context.Context, showingID uuid.UUID, labels []string, token uuid.UUID, expiresAt time.Time) error {
	conflicts, err := s.repo.Seat.TryHold(ctx, showingID, labels, token, expiresAt)
	if err != nil {
		return fmt.Errorf("hold seats: %w", err)
	}
	if len(conflicts) > 0 {
		s.log.Info("Hold lost seat race",
			zap.String("showing_id", showingID.String()),
			zap.Strings("conflicts", conflicts),
		)
		return apperr.SeatUnavailable(conflicts)
	}
	return nil
}

func (s *inventoryService) ConfirmSeats(ctx context.Context, token uuid.UUID) ([]string, error) {
	labels, err := s.repo.Seat.ConfirmHold(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("confirm seats: %w", err)
	}
	if len(labels) == 0 {
		return nil, apperr.New(apperr.KindExpired, "hold %s expired or released", token)
	}
	return labels, nil
}

func (s *inventoryService) ReleaseSeats(ctx context.Context, token uuid.UUID) ([]string, error) {
	labels, err := s.repo.Seat.ReleaseHold(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("release seats: %w", err)
	}
	return labels, nil
}

func (s *inventoryService) ReleaseBooked(ctx context.Context, showingID uuid.UUID, labels []string) error {
	if err := s.repo.Seat.ReleaseBooked(ctx, showingID, labels); err != nil {
		return fmt.Errorf("release booked seats: %w", err)
	}
	return nil
}

func (s *inventoryService) StartSweeper(ctx context.Context) {
	interval := s.config.Hold.SweepInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.log.Info("Hold sweeper started", zap.Duration("interval", interval))
		for {
			select {
			case <-ctx.Done():
				s.log.Info("Hold sweeper stopped")
				return
			case <-ticker.C:
				if n, err := s.SweepExpired(ctx, time.Now()); err != nil {
					s.log.Error("Hold sweep failed", zap.Error(err))
				} else if n > 0 {
					s.log.Info("Expired holds reclaimed", zap.Int("holds", n))
				}
			}
		}
	}()
}

func (s *inventoryService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	tokens, err := s.repo.Seat.ReleaseExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("release expired seats: %w", err)
	}
	if len(tokens) == 0 {
		return 0, nil
	}
	if err := s.repo.Hold.MarkExpired(ctx, tokens); err != nil {
		return 0, fmt.Errorf("mark holds expired: %w", err)
	}
	return len(tokens), nil
}
