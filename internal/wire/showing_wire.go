package wire

import (
	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/middleware"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireShowing(
	r chi.Router,
	showingHandler *adaptor.ShowingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// Public: browse theaters, showings and live seat maps
	r.Get("/api/theaters", showingHandler.GetTheaters)
	r.Get("/api/showings", showingHandler.ListShowings)
	r.Get("/api/showings/{id}", showingHandler.GetShowing)
	r.Get("/api/showings/{id}/seats", showingHandler.GetSeatMap)

	// Admin scheduling
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/api/theaters", showingHandler.CreateTheater)
		r.Post("/api/showings", showingHandler.CreateShowing)
	})
}
