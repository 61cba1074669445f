package adaptor

import (
	"net/http"

	"movie-booking/internal/usecase"
	"movie-booking/pkg/apperr"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Movie   *MovieHandler
	Showing *ShowingHandler
	Hold    *HoldHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Movie:   NewMovieHandler(service.Movie, log),
		Showing: NewShowingHandler(service.Catalog, service.Inventory, log),
		Hold:    NewHoldHandler(service.Reservation, log),
		Booking: NewBookingHandler(service.Ledger, log),
	}
}

// handleServiceError maps service error kinds onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	kind := apperr.KindOf(err)

	switch kind {
	case apperr.KindValidation:
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)
	case apperr.KindConflict:
		log.Info(operation+" conflict", zap.Error(err))
		var errors any
		if seats := apperr.ConflictSeats(err); len(seats) > 0 {
			errors = map[string]any{"unavailable_seats": seats}
		}
		utils.ResponseConflict(w, err.Error(), errors)
	case apperr.KindExpired:
		log.Info(operation+" on expired hold", zap.Error(err))
		utils.ResponseGone(w, err.Error())
	case apperr.KindIllegalTransition:
		log.Warn(operation+" illegal transition", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error())
	case apperr.KindNotFound:
		log.Warn(operation+" target missing", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())
	case apperr.KindUnauthorized:
		log.Warn(operation+" unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())
	case apperr.KindForbidden:
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())
	case apperr.KindUpstream:
		log.Error(operation+" upstream failure", zap.Error(err))
		utils.ResponseBadGateway(w, err.Error())
	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
