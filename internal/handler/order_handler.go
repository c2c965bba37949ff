package handler

import (
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if !strings.HasPrefix(orderID, "ORD-") {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidField, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// List handles GET /api/orders requests. Admin only.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
