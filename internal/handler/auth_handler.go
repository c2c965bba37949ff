package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles customer and admin sessions.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// AdminLogin handles POST /api/admin/login requests.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req model.AdminLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.AdminLogin(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ChangePassword handles POST /api/admin/password requests.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if err := h.service.ChangeAdminPassword(r.Context(), &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully."})
}

// Logout handles POST /api/auth/logout and /api/admin/logout requests.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r.Context())
	if session == nil {
		writeServiceError(w, r, model.NewDomainError(model.ErrCodeUnauthorised, "Please log in to continue."), h.logger)
		return
	}

	if err := h.service.Logout(r.Context(), session.Token); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
