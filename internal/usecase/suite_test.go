package usecase

import (
	"context"
	"testing"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/payment"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	repo      *repository.Repository
	config    *utils.Config
	gateway   payment.Gateway
	publisher *recordingPublisher

	inventory   InventoryService
	reservation ReservationService
	ledger      LedgerService

	showingID uuid.UUID
	userID    uuid.UUID
}

func newTestEnv(t *testing.T, holdTTL time.Duration) *testEnv {
	t.Helper()

	repo := &repository.Repository{
		Showing:     newFakeShowingRepo(),
		Seat:        newFakeSeatRepo(),
		Hold:        newFakeHoldRepo(),
		Booking:     newFakeBookingRepo(),
		BookingSeat: newFakeBookingSeatRepo(),
		Payment:     newFakePaymentRepo(),
	}

	config := &utils.Config{
		Hold: utils.HoldConfig{
			TTL:           holdTTL,
			SweepInterval: time.Second,
			MaxSeats:      10,
		},
	}

	log := zap.NewNop()
	gateway := payment.NewStubGateway(log)
	publisher := &recordingPublisher{}

	inventory := NewInventoryService(repo, config, log)
	ledger := NewLedgerService(repo, inventory, publisher, log)
	reservation := NewReservationService(repo, config, inventory, ledger, gateway, log)

	env := &testEnv{
		repo:        repo,
		config:      config,
		gateway:     gateway,
		publisher:   publisher,
		inventory:   inventory,
		reservation: reservation,
		ledger:      ledger,
		userID:      uuid.New(),
	}
	env.showingID = env.seedShowing(t)
	return env
}

// seedShowing creates a showing starting tomorrow with the full seat layout.
func (env *testEnv) seedShowing(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	showing := &entity.Showing{
		BaseSimple: entity.BaseSimple{ID: uuid.New()},
		MovieID:    uuid.New(),
		TheaterID:  uuid.New(),
		ShowDate:   time.Now().AddDate(0, 0, 1),
		ShowTime:   "19:30",
	}
	require.NoError(t, env.repo.Showing.Create(ctx, showing))

	template := entity.SeatTemplate()
	seats := make([]*entity.ShowingSeat, 0, len(template))
	for _, tmpl := range template {
		seats = append(seats, &entity.ShowingSeat{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
			ShowingID:    showing.ID,
			SeatLabel:    tmpl.Label,
			SeatRow:      tmpl.Row,
			SeatColumn:   tmpl.Column,
			Tier:         tmpl.Tier,
			Price:        tmpl.Price,
			State:        entity.SeatAvailable,
		})
	}
	require.NoError(t, env.repo.Seat.CreateBatch(ctx, seats))

	return showing.ID
}

// seatState reads the current state of one seat.
func (env *testEnv) seatState(t *testing.T, label string) entity.SeatState {
	t.Helper()
	seats, err := env.repo.Seat.FindByLabels(context.Background(), env.showingID, []string{label})
	require.NoError(t, err)
	require.Len(t, seats, 1)
	return seats[0].State
}
