package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/poornesh-v09/Milk-Management/internal/repository"
	"github.com/poornesh-v09/Milk-Management/internal/service"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", service.NewValidationError("bad input"), http.StatusBadRequest},
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Wrap(repository.ErrNotFound, "customer lookup"), http.StatusNotFound},
		{"duplicate", repository.ErrDuplicate, http.StatusConflict},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			require.Equal(t, tt.status, w.Code)
			require.Contains(t, w.Body.String(), "message")
		})
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
