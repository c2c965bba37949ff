package handler

import (
	"net/http"

	"storefront/internal/delivery"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles delivery quotes and checkout submissions.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Quote handles GET /api/checkout/quote?zone= requests. An unknown zone is
// priced with no delivery fee.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	id := cartID(w, r)
	zone := r.URL.Query().Get("zone")

	quote, err := h.service.Quote(r.Context(), id, zone)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if zone != "" && !delivery.Known(zone) {
		h.logger.Debug().Str("zone", zone).Msg("unknown delivery zone")
	}

	writeJSON(w, http.StatusOK, quote)
}

// Checkout handles POST /api/checkout requests.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id := cartID(w, r)

	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Checkout(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
