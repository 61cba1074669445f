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
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

// CatalogService manages theaters and showings. Creating a showing seeds its
// full seat inventory from the house template in the same call, so a showing
// is bookable the moment it exists.
type CatalogService interface {
	CreateTheater(ctx context.Context, name, location string) (*response.TheaterResponse, error)
	GetTheaters(ctx context.Context) ([]response.TheaterResponse, error)

	CreateShowing(ctx context.Context, req *request.CreateShowingRequest) (*response.ShowingResponse, error)
	GetShowing(ctx context.Context, id string) (*response.ShowingResponse, error)
	ListShowings(ctx context.Context, req *request.ListShowingsRequest) ([]response.ShowingDetailResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) CreateTheater(ctx context.Context, name, location string) (*response.TheaterResponse, error) {
	if name == "" || location == "" {
		return nil, apperr.New(apperr.KindValidation, "theater name and location are required")
	}

	theater := &entity.Theater{
		Base:     entity.NewBase(),
		Name:     name,
		Location: location,
	}
	if err := s.repo.Theater.Create(ctx, theater); err != nil {
		return nil, fmt.Errorf("create theater: %w", err)
	}

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}

func (s *catalogService) GetTheaters(ctx context.Context) ([]response.TheaterResponse, error) {
	theaters, err := s.repo.Theater.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list theaters: %w", err)
	}

	out := make([]response.TheaterResponse, 0, len(theaters))
	for _, t := range theaters {
		out = append(out, response.TheaterToResponse(t))
	}
	return out, nil
}

func (s *catalogService) CreateShowing(ctx context.Context, req *request.CreateShowingRequest) (*response.ShowingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create showing validation failed", zap.Any("errors", errs))
		return nil, apperr.New(apperr.KindValidation, "%s", utils.FormatValidationErrors(errs))
	}

	movieID, err := utils.ParseUUID(req.MovieID)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid movie ID %s", req.MovieID)
	}
	theaterID, err := utils.ParseUUID(req.TheaterID)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid theater ID %s", req.TheaterID)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, apperr.New(apperr.KindNotFound, "movie %s not found", req.MovieID)
	}

	theater, err := s.repo.Theater.FindByID(ctx, theaterID)
	if err != nil {
		return nil, fmt.Errorf("find theater: %w", err)
	}
	if theater == nil {
		return nil, apperr.New(apperr.KindNotFound, "theater %s not found", req.TheaterID)
	}

	showDate, err := time.Parse("2006-01-02", req.ShowDate)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid show date %s", req.ShowDate)
	}

	showing := &entity.Showing{
		BaseSimple: entity.NewBaseSimple(),
		MovieID:    movieID,
		TheaterID:  theaterID,
		ShowDate:   showDate,
		ShowTime:   req.ShowTime,
	}
	if showing.StartsAt().Before(time.Now()) {
		return nil, apperr.New(apperr.KindValidation, "showing start must be in the future")
	}

	if err := s.repo.Showing.Create(ctx, showing); err != nil {
		return nil, fmt.Errorf("create showing: %w", err)
	}

	// Seed the seat inventory for the new showing.
	template := entity.SeatTemplate()
	now := time.Now()
	seats := make([]*entity.ShowingSeat, 0, len(template))
	for _, t := range template {
		seats = append(seats, &entity.ShowingSeat{
			BaseNoDelete: entity.BaseNoDelete{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			ShowingID:    showing.ID,
			SeatLabel:    t.Label,
			SeatRow:      t.Row,
			SeatColumn:   t.Column,
			Tier:         t.Tier,
			Price:        t.Price,
			State:        entity.SeatAvailable,
		})
	}
	if err := s.repo.Seat.CreateBatch(ctx, seats); err != nil {
		return nil, fmt.Errorf("seed showing seats: %w", err)
	}

	s.log.Info("Showing created",
		zap.String("showing_id", showing.ID.String()),
		zap.String("movie_id", req.MovieID),
		zap.Int("seats", len(seats)),
	)

	resp := response.ShowingToResponse(showing)
	return &resp, nil
}

func (s *catalogService) GetShowing(ctx context.Context, id string) (*response.ShowingResponse, error) {
	showingID, err := utils.ParseUUID(id)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid showing ID %s", id)
	}

	showing, err := s.repo.Showing.FindByID(ctx, showingID)
	if err != nil {
		return nil, fmt.Errorf("find showing: %w", err)
	}
	if showing == nil {
		return nil, apperr.New(apperr.KindNotFound, "showing %s not found", id)
	}

	resp := response.ShowingToResponse(showing)
	return &resp, nil
}

func (s *catalogService) ListShowings(ctx context.Context, req *request.ListShowingsRequest) ([]response.ShowingDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.New(apperr.KindValidation, "%s", utils.FormatValidationErrors(errs))
	}

	filter := repository.ShowingFilter{}
	if req.MovieID != "" {
		id, err := utils.ParseUUID(req.MovieID)
		if err != nil {
			return nil, apperr.New(apperr.KindValidation, "invalid movie ID %s", req.MovieID)
		}
		filter.MovieID = &id
	}
	if req.TheaterID != "" {
		id, err := utils.ParseUUID(req.TheaterID)
		if err != nil {
			return nil, apperr.New(apperr.KindValidation, "invalid theater ID %s", req.TheaterID)
		}
		filter.TheaterID = &id
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, apperr.New(apperr.KindValidation, "invalid date %s", req.Date)
		}
		filter.Date = &date
	}

	showings, err := s.repo.Showing.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list showings: %w", err)
	}

	now := time.Now()
	out := make([]response.ShowingDetailResponse, 0, len(showings))
	for _, showing := range showings {
		seats, err := s.repo.Seat.FindByShowingID(ctx, showing.ID)
		if err != nil {
			return nil, fmt.Errorf("count seats for showing %s: %w", showing.ID, err)
		}

		available := 0
		for _, seat := range seats {
			switch seat.State {
			case entity.SeatAvailable:
				available++
			case entity.SeatHeld:
				if seat.HoldExpiresAt != nil && !now.Before(*seat.HoldExpiresAt) {
					available++
				}
			}
		}

		out = append(out, response.ShowingDetailResponse{
			ShowingResponse: response.ShowingToResponse(showing),
			TotalSeats:      len(seats),
			AvailableSeats:  available,
		})
	}
	return out, nil
}
