package usecase

import (
	"context"
	"fmt"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/pkg/apperr"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

type MovieService interface {
	CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieResponse, error)
	GetMovie(ctx context.Context, id string) (*response.MovieResponse, error)
	GetMovies(ctx context.Context, genre, search string) ([]response.MovieResponse, error)
	UpdateMovie(ctx context.Context, id string, req *request.UpdateMovieRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, id string) error
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(repo *repository.Repository, log *zap.Logger) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create movie validation failed", zap.Any("errors", errs))
		return nil, apperr.New(apperr.KindValidation, "%s", utils.FormatValidationErrors(errs))
	}

	movie := &entity.Movie{
		Base:        entity.NewBase(),
		Title:       req.Title,
		Genre:       req.Genre,
		Year:        req.Year,
		Ratings:     req.Ratings,
		Description: req.Description,
		PosterURL:   req.PosterURL,
	}
	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created", zap.String("movie_id", movie.ID.String()), zap.String("title", movie.Title))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) GetMovie(ctx context.Context, id string) (*response.MovieResponse, error) {
	movieID, err := utils.ParseUUID(id)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid movie ID %s", id)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, apperr.New(apperr.KindNotFound, "movie %s not found", id)
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) GetMovies(ctx context.Context, genre, search string) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx, genre, search)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	out := make([]response.MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, response.MovieToResponse(m))
	}
	return out, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, id string, req *request.UpdateMovieRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.New(apperr.KindValidation, "%s", utils.FormatValidationErrors(errs))
	}

	movieID, err := utils.ParseUUID(id)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid movie ID %s", id)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, apperr.New(apperr.KindNotFound, "movie %s not found", id)
	}

	movie.Title = req.Title
	movie.Genre = req.Genre
	movie.Year = req.Year
	movie.Ratings = req.Ratings
	movie.Description = req.Description
	movie.PosterURL = req.PosterURL

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id string) error {
	movieID, err := utils.ParseUUID(id)
	if err != nil {
		return apperr.New(apperr.KindValidation, "invalid movie ID %s", id)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return apperr.New(apperr.KindNotFound, "movie %s not found", id)
	}

	if err := s.repo.Movie.Delete(ctx, movieID); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	s.log.Info("Movie deleted", zap.String("movie_id", id))
	return nil
}
