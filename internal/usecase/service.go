package usecase

import (
	"movie-booking/internal/data/repository"
	"movie-booking/internal/events"
	"movie-booking/pkg/payment"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	Movie       MovieService
	Catalog     CatalogService
	Inventory   InventoryService
	Reservation ReservationService
	Ledger      LedgerService
}

func NewService(repo *repository.Repository, config *utils.Config, gateway payment.Gateway, publisher events.Publisher, log *zap.Logger) *Service {
	inventory := NewInventoryService(repo, config, log)
	ledger := NewLedgerService(repo, inventory, publisher, log)

	return &Service{
		Auth:        NewAuthService(repo, config, log),
		Movie:       NewMovieService(repo, log),
		Catalog:     NewCatalogService(repo, log),
		Inventory:   inventory,
		Reservation: NewReservationService(repo, config, inventory, ledger, gateway, log),
		Ledger:      ledger,
	}
}
