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

type ShowingHandler struct {
	catalog   usecase.CatalogService
	inventory usecase.InventoryService
	log       *zap.Logger
}

func NewShowingHandler(catalog usecase.CatalogService, inventory usecase.InventoryService, log *zap.Logger) *ShowingHandler {
	return &ShowingHandler{
		catalog:   catalog,
		inventory: inventory,
		log:       log.With(zap.String("handler", "showing")),
	}
}

// CreateTheater handles POST /api/theaters (admin)
func (h *ShowingHandler) CreateTheater(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	theater, err := h.catalog.CreateTheater(r.Context(), req.Name, req.Location)
	if err != nil {
		handleServiceError(w, h.log, err, "create theater")
		return
	}

	utils.ResponseCreated(w, "success", theater)
}

// GetTheaters handles GET /api/theaters (public)
func (h *ShowingHandler) GetTheaters(w http.ResponseWriter, r *http.Request) {
	theaters, err := h.catalog.GetTheaters(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list theaters")
		return
	}

	utils.ResponseSuccess(w, "success", theaters)
}

// CreateShowing handles POST /api/showings (admin)
func (h *ShowingHandler) CreateShowing(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShowingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	showing, err := h.catalog.CreateShowing(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create showing")
		return
	}

	utils.ResponseCreated(w, "success", showing)
}

// ListShowings handles GET /api/showings (public)
func (h *ShowingHandler) ListShowings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.ListShowingsRequest{
		MovieID:   query.Get("movie_id"),
		TheaterID: query.Get("theater_id"),
		Date:      query.Get("date"),
	}

	showings, err := h.catalog.ListShowings(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list showings")
		return
	}

	utils.ResponseSuccess(w, "success", showings)
}

// GetShowing handles GET /api/showings/{id} (public)
func (h *ShowingHandler) GetShowing(w http.ResponseWriter, r *http.Request) {
	showing, err := h.catalog.GetShowing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get showing")
		return
	}

	utils.ResponseSuccess(w, "success", showing)
}

// GetSeatMap handles GET /api/showings/{id}/seats (public)
func (h *ShowingHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	seatMap, err := h.inventory.GetSeatMap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}
