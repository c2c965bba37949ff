package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Check(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name           string
		checks         map[string]Pinger
		expectedStatus int
		expectedState  string
	}{
		{
			name:           "No dependencies",
			checks:         nil,
			expectedStatus: http.StatusOK,
			expectedState:  "healthy",
		},
		{
			name:           "All up",
			checks:         map[string]Pinger{"postgres": ok, "redis": ok},
			expectedStatus: http.StatusOK,
			expectedState:  "healthy",
		},
		{
			name:           "Redis down",
			checks:         map[string]Pinger{"postgres": ok, "redis": down},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.checks, zerolog.Nop())

			w := httptest.NewRecorder()
			handler.Check(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var resp HealthResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.expectedState, resp.Status)
			for name := range tt.checks {
				assert.Contains(t, resp.Checks, name)
			}
		})
	}
}
