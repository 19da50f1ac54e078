package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cohort-backend/internal/auth"
	"cohort-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager() *auth.JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "unit-test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "cohort-backend"
	return auth.NewJWTManager(cfg)
}

func TestAuthenticatePopulatesContext(t *testing.T) {
	jwtManager := newTestJWTManager()
	token, err := jwtManager.GenerateToken("admin-1", "admin@example.com", "admin")
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtManager)

	var gotUserID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		gotRole, _ = GetRoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/api/payments/engine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1", gotUserID)
	assert.Equal(t, "admin", gotRole)
}

func TestAuthenticateRejectsMissingOrBadToken(t *testing.T) {
	m := NewAuthMiddleware(newTestJWTManager())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/payments/engine", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			m.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestContextGettersOnEmptyContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	_, ok := GetUserIDFromContext(req.Context())
	assert.False(t, ok)
	_, ok = GetRoleFromContext(req.Context())
	assert.False(t, ok)
}
