package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"cohort-backend/internal/handlers"
	"cohort-backend/internal/middleware"
)

func TestNewRouterRegistersAllRoutes(t *testing.T) {
	r := NewRouter(
		&handlers.PaymentEngineHandler{},
		&handlers.StatementHandler{},
		&handlers.HealthHandler{},
		&middleware.AuthMiddleware{},
	)

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/health/ready"},
		{"GET", "/health/detailed"},
		{"GET", "/metrics"},
		{"POST", "/api/payments/engine"},
		{"GET", "/api/payments/statement"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		var match mux.RouteMatch
		assert.True(t, r.Match(req, &match), "%s %s should be routable", tt.method, tt.path)
	}
}
