package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"agency-backend/internal/handlers"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		db       handlers.Pinger
		wantCode int
		wantBody string
	}{
		{name: "no database", db: nil, wantCode: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "database up", db: pinger{}, wantCode: http.StatusOK, wantBody: `"database":"ok"`},
		{name: "database down", db: pinger{err: errors.New("refused")}, wantCode: http.StatusServiceUnavailable, wantBody: "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.GET("/health", handlers.NewHealthHandler(tt.db).Health)

			req, _ := http.NewRequest("GET", "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
