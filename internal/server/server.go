package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/craveq/backend/config"
	"github.com/pageza/craveq/backend/internal/api"
	"github.com/pageza/craveq/backend/internal/middleware"
	"github.com/pageza/craveq/backend/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	http    *http.Server
	db      *gorm.DB
	redis   *redis.Client
	metrics *middleware.Metrics
}

// New creates a new server instance. redisClient may be nil, in which case
// decode results are not cached and rate limiting is kept in process.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	recipes := service.NewRecipeService(db)
	auth := service.NewAuthService(cfg.JWTSecret, cfg.AdminPasswordHash)
	metrics := middleware.NewMetrics()

	deps := api.Dependencies{
		DB:      db,
		Redis:   redisClient,
		Recipes: recipes,
		Auth:    auth,
		Metrics: metrics,
	}

	var upgrader service.Upgrader = service.NewCatalogUpgrader(recipes, cfg.MaxAlternatives)
	if redisClient != nil && cfg.CacheTTL > 0 {
		cached := service.NewCachedUpgrader(upgrader, redisClient, cfg.CacheTTL)
		upgrader = cached
		deps.Cache = cached
	}
	deps.Upgrader = upgrader

	if cfg.RateLimitPerMinute > 0 {
		deps.Limiter = middleware.NewDecodeRateLimiter(redisClient, cfg.RateLimitPerMinute)
	}

	router := gin.New()
	router.Use(gin.Logger())
	// Metrics wrap recovery so panics are counted as 500s
	router.Use(metrics.Middleware())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())
	api.RegisterRoutes(router, deps)

	return &Server{
		cfg:     cfg,
		router:  router,
		db:      db,
		redis:   redisClient,
		metrics: metrics,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and blocks until the server stops.
// A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until the server is shut down
func (s *Server) Serve(ln net.Listener) error {
	log.Printf("[Server] Listening on %s", ln.Addr())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, waiting at most five seconds
// for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
