package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/craveq/backend/internal/service"
	"github.com/pageza/craveq/backend/internal/types"
)

func TestAuthToken(t *testing.T) {
	auth := newTestAuthService(t)
	router := newTestRouter(t, Dependencies{Auth: auth})

	t.Run("valid password", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/auth/token", `{"password":"correct horse"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp types.TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.NotZero(t, resp.ExpiresAt)

		claims, err := auth.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, types.AdminRole, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/auth/token", `{"password":"battery staple"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())
	})

	t.Run("missing password", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/auth/token", `{}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthTokenDisabled(t *testing.T) {
	router := newTestRouter(t, Dependencies{Auth: service.NewAuthService("", "")})

	w := performRequest(router, http.MethodPost, "/api/v1/auth/token", `{"password":"anything"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"admin login is disabled"}`, w.Body.String())
}
