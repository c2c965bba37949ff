package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		body           string
		mockReturn     *model.SessionResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"name":"Jane","email":"jane@example.com","password":"Secret123","confirmPassword":"Secret123"}`,
			mockReturn:     &model.SessionResponse{Token: "tok", Name: "Jane", Email: "jane@example.com", LoginTime: time.Now()},
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Duplicate email",
			body:           `{"name":"Jane","email":"jane@example.com","password":"Secret123","confirmPassword":"Secret123"}`,
			mockError:      model.ErrRegistrationFailed,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			handler := NewAuthHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Register", mock.Anything, mock.AnythingOfType("*model.RegisterRequest")).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		admin          bool
		mockReturn     *model.SessionResponse
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Customer success",
			mockReturn:     &model.SessionResponse{Token: "tok", Email: "testuser@example.com"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Customer wrong password",
			mockError:      model.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Admin success",
			admin:          true,
			mockReturn:     &model.SessionResponse{Token: "tok", Username: "admin"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Admin wrong password",
			admin:          true,
			mockError:      model.ErrInvalidAdminLogin,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			handler := NewAuthHandler(mockService, logger)
			w := httptest.NewRecorder()

			if tt.admin {
				mockService.On("AdminLogin", mock.Anything, &model.AdminLoginRequest{Username: "admin", Password: "password123"}).
					Return(tt.mockReturn, tt.mockError)
				req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"username":"admin","password":"password123"}`))
				handler.AdminLogin(w, req)
			} else {
				mockService.On("Login", mock.Anything, &model.LoginRequest{Email: "testuser@example.com", Password: "password123"}).
					Return(tt.mockReturn, tt.mockError)
				req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"testuser@example.com","password":"password123"}`))
				handler.Login(w, req)
			}

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp model.SessionResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "tok", resp.Token)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		mockError      error
		expectedStatus int
	}{
		{name: "Success", expectedStatus: http.StatusOK},
		{name: "Wrong current password", mockError: model.ErrWrongPassword, expectedStatus: http.StatusUnauthorized},
		{name: "Weak new password", mockError: model.NewInvalidFieldError("Password must be at least 8 characters long."), expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			handler := NewAuthHandler(mockService, logger)
			mockService.On("ChangeAdminPassword", mock.Anything, mock.AnythingOfType("*model.ChangePasswordRequest")).Return(tt.mockError)

			req := httptest.NewRequest(http.MethodPost, "/api/admin/password",
				bytes.NewBufferString(`{"currentPassword":"password123","newPassword":"NewSecret1","confirmPassword":"NewSecret1"}`))
			w := httptest.NewRecorder()

			handler.ChangePassword(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("With session", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)
		mockService.On("Logout", mock.Anything, "tok-1").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req = req.WithContext(middleware.WithSession(req.Context(), &model.Session{Kind: model.SessionCustomer, Token: "tok-1"}))
		w := httptest.NewRecorder()

		handler.Logout(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Without session", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		w := httptest.NewRecorder()

		handler.Logout(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})
}
