package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/craveq/backend/internal/middleware"
	"github.com/pageza/craveq/backend/internal/mocks"
	"github.com/pageza/craveq/backend/internal/model"
	"github.com/pageza/craveq/backend/internal/service"
)

type recordingObserver struct {
	outcomes []string
}

func (r *recordingObserver) ObserveLookup(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func TestDecode(t *testing.T) {
	alternatives := []model.Alternative{
		{
			Title:       "Dark Chocolate Avocado Mousse",
			Calories:    210,
			Region:      "Mexico",
			Continent:   "North America",
			HealthScore: 78.5,
			Ingredients: []string{"avocado", "cocoa", "maple syrup"},
		},
	}

	upgrader := new(mocks.MockUpgrader)
	upgrader.On("UpgradeRecipe", mock.Anything, "chocolate").Return(alternatives, nil)
	upgrader.On("UpgradeRecipe", mock.Anything, "xyz-unknown").Return(nil, &service.LookupError{Message: "not found"})
	upgrader.On("UpgradeRecipe", mock.Anything, "broken").Return(nil, errors.New("connection refused"))
	upgrader.On("UpgradeRecipe", mock.Anything, "explode").Run(func(mock.Arguments) {
		panic("lookup blew up")
	}).Return(nil, nil)

	observer := &recordingObserver{}
	router := newTestRouter(t, Dependencies{Upgrader: upgrader})
	// Swap in a handler that reports outcomes
	router.POST("/test/decode", NewDecodeHandler(upgrader, observer).Decode)

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{
			name:   "success returns lookup result verbatim",
			body:   `{"craving": "chocolate"}`,
			status: http.StatusOK,
			want:   `[{"title":"Dark Chocolate Avocado Mousse","calories":210,"region":"Mexico","continent":"North America","health_score":78.5,"ingredients":["avocado","cocoa","maple syrup"]}]`,
		},
		{
			name:   "missing craving",
			body:   `{}`,
			status: http.StatusBadRequest,
			want:   `{"error":"Craving is required"}`,
		},
		{
			name:   "empty craving",
			body:   `{"craving": ""}`,
			status: http.StatusBadRequest,
			want:   `{"error":"Craving is required"}`,
		},
		{
			name:   "null craving",
			body:   `{"craving": null}`,
			status: http.StatusBadRequest,
			want:   `{"error":"Craving is required"}`,
		},
		{
			name:   "non-string craving",
			body:   `{"craving": 42}`,
			status: http.StatusBadRequest,
			want:   `{"error":"Craving is required"}`,
		},
		{
			name:   "malformed body",
			body:   `{"craving":`,
			status: http.StatusBadRequest,
			want:   `{"error":"Craving is required"}`,
		},
		{
			name:   "lookup miss passes message through",
			body:   `{"craving": "xyz-unknown"}`,
			status: http.StatusNotFound,
			want:   `{"error":"not found"}`,
		},
		{
			name:   "unexpected lookup error",
			body:   `{"craving": "broken"}`,
			status: http.StatusInternalServerError,
			want:   `{"error":"Internal Server Error"}`,
		},
		{
			name:   "panicking lookup",
			body:   `{"craving": "explode"}`,
			status: http.StatusInternalServerError,
			want:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, path := range []string{"/api/decode", "/test/decode"} {
		for _, tt := range tests {
			t.Run(path+" "+tt.name, func(t *testing.T) {
				w := performRequest(router, http.MethodPost, path, tt.body, nil)

				assert.Equal(t, tt.status, w.Code)
				assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
				assert.JSONEq(t, tt.want, w.Body.String())
			})
		}
	}

	// The panicking case never reaches an outcome
	assert.Equal(t, []string{
		middleware.OutcomeHit,
		middleware.OutcomeInvalid,
		middleware.OutcomeInvalid,
		middleware.OutcomeInvalid,
		middleware.OutcomeInvalid,
		middleware.OutcomeInvalid,
		middleware.OutcomeMiss,
		middleware.OutcomeError,
	}, observer.outcomes)
}

func TestDecodeEmptyBody(t *testing.T) {
	router := newTestRouter(t, Dependencies{})

	w := performRequest(router, http.MethodPost, "/api/decode", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"error":"Craving is required"}`, w.Body.String())
}

func TestDecodeCORS(t *testing.T) {
	upgrader := new(mocks.MockUpgrader)
	upgrader.On("UpgradeRecipe", mock.Anything, "fries").Return([]model.Alternative{{Title: "Baked Sweet Potato Wedges"}}, nil)
	router := newTestRouter(t, Dependencies{Upgrader: upgrader})

	w := performRequest(router, http.MethodPost, "/api/decode", `{"craving":"fries"}`, map[string]string{
		"Origin": "https://somewhere.example",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDecodeWithCatalog(t *testing.T) {
	db := setupCatalog(t)
	upgrader := service.NewCatalogUpgrader(service.NewRecipeService(db), 5)
	router := newTestRouter(t, Dependencies{DB: db, Upgrader: upgrader})

	w := performRequest(router, http.MethodPost, "/api/decode", `{"craving":"  Burger "}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Umami Mushroom Stack"`)

	w = performRequest(router, http.MethodPost, "/api/decode", `{"craving":"xyz-unknown"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"No healthier alternatives found for 'xyz-unknown'"}`, w.Body.String())

	// Whitespace passes validation but matches nothing
	w = performRequest(router, http.MethodPost, "/api/decode", `{"craving":"   "}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// LIKE wildcards are matched literally
	for _, craving := range []string{"%", "_", "%%", "b_rger"} {
		w = performRequest(router, http.MethodPost, "/api/decode", `{"craving":"`+craving+`"}`, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, craving)
		assert.JSONEq(t, `{"error":"No healthier alternatives found for '`+craving+`'"}`, w.Body.String())
	}
}
