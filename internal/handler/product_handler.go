package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests with filtering and pagination.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
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

	query := r.URL.Query()
	filter := model.ProductFilter{
		Category: query.Get("category"),
		Sort:     query.Get("sort"),
		Limit:    limit,
		Offset:   offset,
	}

	products, err := h.service.GetAll(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Featured handles GET /api/products/featured requests.
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Featured(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Categories handles GET /api/products/categories requests.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CategoryCounts(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := productIDVar(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if product == nil {
		writeServiceError(w, r, model.ErrProductNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
