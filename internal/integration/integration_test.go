//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/craveq/backend/internal/catalog"
	"github.com/pageza/craveq/backend/internal/model"
	"github.com/pageza/craveq/backend/internal/server"
	"github.com/pageza/craveq/backend/internal/service"
	"github.com/pageza/craveq/backend/internal/testdb"
	"github.com/pageza/craveq/backend/internal/types"
)

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDecodeAgainstPostgresAndRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	tdb := testdb.SetupTestDB(t)
	redisClient := testdb.SetupTestRedis(t)

	recipes := service.NewRecipeService(tdb.DB)
	n, err := catalog.SeedIfEmpty(ctx, recipes, catalog.EmbeddedSource{})
	require.NoError(t, err)
	require.Equal(t, 12, n)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := tdb.Config
	cfg.JWTSecret = "integration-secret"
	cfg.AdminPasswordHash = string(hash)
	cfg.CacheTTL = time.Minute
	cfg.RateLimitPerMinute = 100

	h := server.New(cfg, tdb.DB, redisClient).Handler()

	// Decode through the catalog, then from cache
	for i := 0; i < 2; i++ {
		w := do(t, h, http.MethodPost, "/api/decode", `{"craving":"burger"}`, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var alternatives []model.Alternative
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alternatives))
		require.Len(t, alternatives, 2)
		assert.Equal(t, "Umami Mushroom Stack", alternatives[0].Title)
	}
	exists, err := redisClient.Exists(ctx, "decode:craving:burger").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	w := do(t, h, http.MethodPost, "/api/decode", `{"craving":"xyz-unknown"}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"No healthier alternatives found for 'xyz-unknown'"}`, w.Body.String())

	// Admin writes invalidate the cache
	w = do(t, h, http.MethodPost, "/api/v1/auth/token", `{"password":"admin-pass"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var token types.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))

	body := `{"title":"Turkey Lettuce Wrap Burger","category":"burger","calories":280,"protein":30,"fiber":4,"ingredients":["turkey","lettuce"]}`
	w = do(t, h, http.MethodPost, "/api/v1/recipes", body, token.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	exists, err = redisClient.Exists(ctx, "decode:craving:burger").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	w = do(t, h, http.MethodPost, "/api/decode", `{"craving":"burger"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Turkey Lettuce Wrap Burger")

	// Postgres search over jsonb ingredients
	w = do(t, h, http.MethodGet, "/api/v1/recipes?q=lettuce", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Turkey Lettuce Wrap Burger")
}
