package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. Carts are keyed by the X-Cart-ID
// header.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := cartID(w, r)

	summary, err := h.service.Summary(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// AddItem handles POST /api/cart/items requests. A product already in the
// cart is answered with 409 and a quantity prompt.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id := cartID(w, r)

	var req model.AddToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	update, err := h.service.Add(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if update.Prompt != nil {
		writeJSON(w, http.StatusConflict, update)
		return
	}
	writeJSON(w, http.StatusCreated, update)
}

// UpdateItem handles PUT /api/cart/items/{id} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := cartID(w, r)

	productID, err := productIDVar(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	var req model.UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	summary, err := h.service.UpdateQuantity(r.Context(), id, productID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := cartID(w, r)

	productID, err := productIDVar(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	summary, err := h.service.Remove(r.Context(), id, productID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id := cartID(w, r)

	summary, err := h.service.Clear(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
