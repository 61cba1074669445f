package wire

import (
	"context"
	"net/http"
	"time"

	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/events"
	"movie-booking/internal/usecase"
	"movie-booking/pkg/database"
	"movie-booking/pkg/middleware"
	"movie-booking/pkg/payment"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App bundles the router with the service layer so the server entrypoint can
// start background workers.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds the full dependency graph.
func Wiring(
	db *database.DB,
	rdb *redis.Client,
	repo *repository.Repository,
	config *utils.Config,
	gateway payment.Gateway,
	publisher events.Publisher,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, gateway, publisher, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, db, rdb, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	db *database.DB,
	rdb *redis.Client,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))
	r.Use(middleware.RateLimit(config.RateLimit, rdb, logger))

	wireAuth(r, handler.Auth, repo, config, logger)
	wireMovie(r, handler.Movie, repo, config, logger)
	wireShowing(r, handler.Showing, repo, config, logger)
	wireBooking(r, handler.Hold, handler.Booking, repo, config, logger)

	// Health check reports database reachability.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "database unreachable", nil, nil)
			return
		}
		utils.ResponseSuccess(w, "ok", nil)
	})

	return r
}
