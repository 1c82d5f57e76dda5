package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	metrics := NewMetrics()

	router := gin.New()
	router.Use(metrics.Middleware())
	router.GET("/recipes/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", metrics.Handler())

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	metrics.ObserveLookup(OutcomeHit)
	metrics.ObserveLookup(OutcomeMiss)
	metrics.ObserveLookup(OutcomeHit)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/recipes/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.lookups.WithLabelValues(OutcomeHit)))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `decode_lookups_total{outcome="miss"} 1`))
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
}
