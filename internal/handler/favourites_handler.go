package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// FavouritesResponse lists a customer's favourites.
type FavouritesResponse struct {
	IDs      []int64         `json:"ids"`
	Products []model.Product `json:"products"`
}

// ToggleResponse reports a product's favourite state after a toggle.
type ToggleResponse struct {
	ProductID int64 `json:"productId"`
	Favourite bool  `json:"favourite"`
}

// FavouritesHandler handles favourites HTTP requests.
type FavouritesHandler struct {
	service service.FavouritesService
	logger  zerolog.Logger
}

// NewFavouritesHandler creates a new favourites handler.
func NewFavouritesHandler(service service.FavouritesService, logger zerolog.Logger) *FavouritesHandler {
	return &FavouritesHandler{
		service: service,
		logger:  logger.With().Str("handler", "favourites").Logger(),
	}
}

// List handles GET /api/favourites requests. Anonymous callers get an
// empty list.
func (h *FavouritesHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r.Context())

	products, err := h.service.Products(r.Context(), session)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	writeJSON(w, http.StatusOK, FavouritesResponse{IDs: ids, Products: products})
}

// Toggle handles POST /api/favourites/{id} requests.
func (h *FavouritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDVar(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	favourite, err := h.service.Toggle(r.Context(), middleware.SessionFrom(r.Context()), productID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ToggleResponse{ProductID: productID, Favourite: favourite})
}

// Remove handles DELETE /api/favourites/{id} requests.
func (h *FavouritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDVar(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if err := h.service.Remove(r.Context(), middleware.SessionFrom(r.Context()), productID); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
