package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/payment"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies; the largest payload is a checkout form.
const maxBodyBytes = 64 << 10

// statusByCode maps domain error codes to HTTP statuses.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:        http.StatusBadRequest,
	model.ErrCodeMissingField:       http.StatusBadRequest,
	model.ErrCodeInvalidField:       http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:    http.StatusBadRequest,
	model.ErrCodeEmptyCart:          http.StatusBadRequest,
	model.ErrCodeInvalidAmount:      http.StatusBadRequest,
	model.ErrCodeRegistrationFailed: http.StatusBadRequest,
	model.ErrCodeProductNotFound:    http.StatusNotFound,
	model.ErrCodeOrderNotFound:      http.StatusNotFound,
	model.ErrCodeCheckoutInProgress: http.StatusConflict,
	model.ErrCodePaymentFailed:      http.StatusPaymentRequired,
	model.ErrCodeInvalidCredentials: http.StatusUnauthorized,
	model.ErrCodeLoginRequired:      http.StatusUnauthorized,
	model.ErrCodeUnauthorised:       http.StatusUnauthorized,
	model.ErrCodeForbidden:          http.StatusForbidden,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.CorrelationIDFrom(r.Context()),
	})
}

// writeServiceError maps a service error onto a response. Field errors are
// 422, domain errors use their code, and anything else is a 500 whose
// detail stays in the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var fieldErr *payment.FieldError
	if errors.As(err, &fieldErr) {
		logger.Warn().Str("field", fieldErr.Field).Str("error", fieldErr.Message).Msg("field rejected")
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:         model.ErrCodeInvalidField,
			Message:       fieldErr.Message,
			Field:         fieldErr.Field,
			CorrelationID: middleware.CorrelationIDFrom(r.Context()),
		})
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeError(w, r, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected error")
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "An unexpected error occurred", logger)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid request body")
	}
	return nil
}

// cartID returns the caller's cart ID, issuing a fresh one when the header
// is missing or malformed. The ID is echoed back on every response.
func cartID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(middleware.HeaderCartID)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	w.Header().Set(middleware.HeaderCartID, id)
	return id
}

// productIDVar parses the {id} path variable as a product ID.
func productIDVar(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewInvalidFieldError("Invalid product ID")
	}
	return id, nil
}

// intQuery parses an optional integer query parameter.
func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewInvalidFieldError("invalid " + name + " parameter")
	}
	return v, nil
}
