package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/craveq/backend/internal/middleware"
	"github.com/pageza/craveq/backend/internal/mocks"
	"github.com/pageza/craveq/backend/internal/service"
	"github.com/pageza/craveq/backend/internal/testhelpers"
)

const (
	testJWTSecret     = "test-secret"
	testAdminPassword = "correct horse"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires routes the way the server does, filling in defaults
// for anything the test does not care about.
func newTestRouter(t *testing.T, deps Dependencies) *gin.Engine {
	t.Helper()

	if deps.DB == nil {
		deps.DB = testhelpers.SetupTestDatabase(t)
	}
	if deps.Recipes == nil {
		deps.Recipes = service.NewRecipeService(deps.DB)
	}
	if deps.Auth == nil {
		deps.Auth = newTestAuthService(t)
	}
	if deps.Upgrader == nil {
		deps.Upgrader = new(mocks.MockUpgrader)
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())
	RegisterRoutes(router, deps)
	return router
}

// setupCatalog returns a database holding the burger catalog
func setupCatalog(t *testing.T) *gorm.DB {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	testhelpers.InsertRecipes(t, db, testhelpers.BurgerCatalog()...)
	return db
}

func newTestAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return service.NewAuthService(testJWTSecret, string(hash))
}

func adminToken(t *testing.T, auth *service.AuthService) string {
	t.Helper()
	token, _, err := auth.Login(testAdminPassword)
	require.NoError(t, err)
	return token
}

func performRequest(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
