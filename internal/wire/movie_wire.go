package wire

import (
	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/middleware"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// Public catalog browsing
	r.Get("/api/movies", movieHandler.GetMovies)
	r.Get("/api/movies/{id}", movieHandler.GetMovie)

	// Admin catalog management
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/api/movies", movieHandler.CreateMovie)
		r.Put("/api/movies/{id}", movieHandler.UpdateMovie)
		r.Delete("/api/movies/{id}", movieHandler.DeleteMovie)
	})
}
