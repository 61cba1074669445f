package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-booking/internal/dto/request"
	"movie-booking/internal/usecase"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type HoldHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewHoldHandler(service usecase.ReservationService, log *zap.Logger) *HoldHandler {
	return &HoldHandler{
		service: service,
		log:     log.With(zap.String("handler", "hold")),
	}
}

// CreateHold handles POST /api/holds (protected)
func (h *HoldHandler) CreateHold(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	hold, err := h.service.StartHold(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create hold")
		return
	}

	utils.ResponseCreated(w, "success", hold)
}

// CreateIntent handles POST /api/payments/intent (protected)
func (h *HoldHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create payment intent")
		return
	}

	utils.ResponseCreated(w, "success", intent)
}

// ConfirmHold handles POST /api/holds/{token}/confirm (protected)
func (h *HoldHandler) ConfirmHold(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ConfirmHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CompletePayment(r.Context(), userID, chi.URLParam(r, "token"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm hold")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// ReleaseHold handles DELETE /api/holds/{token} (protected)
func (h *HoldHandler) ReleaseHold(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Abandon(r.Context(), userID, chi.URLParam(r, "token")); err != nil {
		handleServiceError(w, h.log, err, "release hold")
		return
	}

	utils.ResponseNoContent(w)
}
