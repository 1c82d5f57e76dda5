package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/craveq/backend/internal/database"
	"github.com/pageza/craveq/backend/internal/middleware"
	"github.com/pageza/craveq/backend/internal/service"
)

// IndexMessage is the liveness text served at the root path
const IndexMessage = "Foodoscope API is running! Use /api/decode for POST requests."

// Dependencies carries everything the routes need. Redis, Cache, Limiter and
// Metrics are optional.
type Dependencies struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Upgrader service.Upgrader
	Recipes  service.IRecipeService
	Auth     service.IAuthService
	Cache    service.CacheInvalidator
	Limiter  middleware.Limiter
	Metrics  *middleware.Metrics
}

// Index reports that the service is alive
func Index(c *gin.Context) {
	c.String(http.StatusOK, IndexMessage)
}

// HealthHandler reports the state of the database and Redis
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a new health handler; redisClient may be nil
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":   "healthy",
		"message":  "CraveQ API is running",
		"database": "up",
		"redis":    "disabled",
	}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = err.Error()
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			if status == http.StatusOK {
				body["status"] = "degraded"
			}
			body["redis"] = err.Error()
		} else {
			body["redis"] = "up"
		}
	}

	c.JSON(status, body)
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/", Index)

	health := NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/health", health.HealthCheck)
	router.GET("/api/health", health.HealthCheck)

	var observer LookupObserver
	if deps.Metrics != nil {
		observer = deps.Metrics
		router.GET("/metrics", deps.Metrics.Handler())
	}

	decodeHandler := NewDecodeHandler(deps.Upgrader, observer)
	if deps.Limiter != nil {
		router.POST("/api/decode", middleware.RateLimitMiddleware(deps.Limiter), decodeHandler.Decode)
	} else {
		router.POST("/api/decode", decodeHandler.Decode)
	}

	v1 := router.Group("/api/v1")
	NewAuthHandler(deps.Auth).RegisterRoutes(v1)
	NewRecipeHandler(deps.Recipes, deps.Auth, deps.Cache).RegisterRoutes(v1)
	if deps.Limiter != nil {
		RegisterRateLimitRoutes(v1, deps.Limiter)
	}
}

// RegisterRateLimitRoutes exposes the caller's remaining decode quota
func RegisterRateLimitRoutes(router *gin.RouterGroup, limiter middleware.Limiter) {
	router.GET("/rate-limits/decode", func(c *gin.Context) {
		remaining, resetTime, err := limiter.GetRemainingRequests(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get rate limit status"})
			return
		}

		cfg := limiter.Config()
		c.JSON(http.StatusOK, gin.H{
			"limit":     cfg.Limit,
			"window":    cfg.Window.String(),
			"remaining": remaining,
			"reset":     resetTime.Unix(),
		})
	})
}
