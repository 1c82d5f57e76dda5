package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Limiter decides whether a request identified by key may proceed.
// Returns: allowed, remaining requests, reset time, error
type Limiter interface {
	IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error)
	GetRemainingRequests(ctx context.Context, key string) (int, time.Time, error)
	Config() RateLimitConfig
}

// RateLimiter handles fixed-window rate limiting using Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

// Config returns the limiter configuration
func (rl *RateLimiter) Config() RateLimitConfig {
	return rl.config
}

func (rl *RateLimiter) windowKey(key string, now time.Time) (string, time.Time) {
	windowStart := now.Truncate(rl.config.Window)
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix()), windowStart
}

// IsAllowed counts a request for key and reports whether it fits in the current window
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	redisKey, windowStart := rl.windowKey(key, rl.now())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	return count <= rl.config.Limit, remaining, resetTime, nil
}

// GetRemainingRequests returns the number of remaining requests for key without counting one
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, key string) (int, time.Time, error) {
	redisKey, windowStart := rl.windowKey(key, rl.now())
	resetTime := windowStart.Add(rl.config.Window)

	count, err := rl.redis.Get(ctx, redisKey).Int()
	if err == redis.Nil {
		// No requests yet in this window
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}

// maxLocalKeys bounds the in-process limiter map before idle entries are pruned
const maxLocalKeys = 10000

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimiter is an in-process token bucket per key, used when Redis is unavailable
type LocalRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	config  RateLimitConfig
	now     func() time.Time
}

// NewLocalRateLimiter creates a limiter refilling config.Limit tokens per config.Window
func NewLocalRateLimiter(config RateLimitConfig) *LocalRateLimiter {
	return &LocalRateLimiter{
		entries: make(map[string]*localEntry),
		config:  config,
		now:     time.Now,
	}
}

// Config returns the limiter configuration
func (l *LocalRateLimiter) Config() RateLimitConfig {
	return l.config
}

func (l *LocalRateLimiter) entry(key string, now time.Time) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		if len(l.entries) >= maxLocalKeys {
			l.prune(now)
		}
		every := l.config.Window / time.Duration(l.config.Limit)
		e = &localEntry{limiter: rate.NewLimiter(rate.Every(every), l.config.Limit)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e
}

// prune drops entries idle for a full window; their buckets would be full again anyway
func (l *LocalRateLimiter) prune(now time.Time) {
	for key, e := range l.entries {
		if now.Sub(e.lastSeen) >= l.config.Window {
			delete(l.entries, key)
		}
	}
}

func (l *LocalRateLimiter) resetTime(lim *rate.Limiter, now time.Time) time.Time {
	missing := float64(l.config.Limit) - lim.TokensAt(now)
	if missing <= 0 {
		return now
	}
	return now.Add(time.Duration(missing / float64(lim.Limit()) * float64(time.Second)))
}

// IsAllowed takes a token for key if one is available
func (l *LocalRateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := l.now()
	lim := l.entry(key, now).limiter

	allowed := lim.AllowN(now, 1)
	remaining := int(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining, l.resetTime(lim, now), nil
}

// GetRemainingRequests reports the tokens left for key without taking one
func (l *LocalRateLimiter) GetRemainingRequests(ctx context.Context, key string) (int, time.Time, error) {
	now := l.now()
	lim := l.entry(key, now).limiter

	remaining := int(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return remaining, l.resetTime(lim, now), nil
}

// NewDecodeRateLimiter creates the per-client limiter for the decode endpoint.
// It uses Redis when a client is given and an in-process bucket otherwise.
func NewDecodeRateLimiter(redisClient *redis.Client, perMinute int) Limiter {
	config := RateLimitConfig{
		Window:    time.Minute,
		Limit:     perMinute,
		KeyPrefix: "rate_limit:decode",
	}
	if redisClient == nil {
		return NewLocalRateLimiter(config)
	}
	return NewRateLimiter(redisClient, config)
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting per client IP
func RateLimitMiddleware(limiter Limiter) gin.HandlerFunc {
	cfg := limiter.Config()

	return func(c *gin.Context) {
		allowed, remaining, resetTime, err := limiter.IsAllowed(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Log error but don't fail the request
			log.Printf("[RateLimiter] Rate limit check failed: %v", err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":                "rate limit exceeded",
				"message":              fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", cfg.Limit, cfg.Window),
				"rate_limit_remaining": remaining,
				"rate_limit_reset":     resetTime.Unix(),
				"retry_after":          retryAfter,
			})
			return
		}

		c.Next()
	}
}
