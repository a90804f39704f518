package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the number of requests allowed per Window, also used as the burst size
	Requests int
	// Window is the period over which Requests are replenished
	Window time.Duration
	// KeyFunc returns the key requests are counted under (defaults to the client IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when the limit is exceeded
	Message string
	// MaxEntries caps the number of tracked keys
	MaxEntries int
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter is a per-key token bucket limiter
type RateLimiter struct {
	config RateLimitConfig
	limit  rate.Limit
	store  map[string]*limiterEntry
	mu     sync.Mutex
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = 10000
	}

	rl := &RateLimiter{
		config: config,
		limit:  rate.Limit(float64(config.Requests) / config.Window.Seconds()),
		store:  make(map[string]*limiterEntry),
	}

	go rl.cleanup()

	return rl
}

// Allow reports whether one more request under key fits the budget
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.store[key]
	if !exists {
		if len(rl.store) >= rl.config.MaxEntries {
			rl.evictOldest()
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.config.Requests)}
		rl.store[key] = entry
	}
	entry.lastAccess = time.Now()

	return entry.limiter.Allow()
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(rl.config.KeyFunc(c)) {
				return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
			}
			return next(c)
		}
	}
}

// evictOldest drops the least recently used key; callers hold mu
func (rl *RateLimiter) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range rl.store {
		if oldestKey == "" || entry.lastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccess
		}
	}
	if oldestKey != "" {
		delete(rl.store, oldestKey)
	}
}

// cleanup removes keys idle for longer than two windows
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-2 * rl.config.Window)
		for key, entry := range rl.store {
			if entry.lastAccess.Before(cutoff) {
				delete(rl.store, key)
			}
		}
		rl.mu.Unlock()
	}
}

// AuthRateLimiter limits login and registration attempts to 5 per minute per IP
var AuthRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 5,
	Window:   1 * time.Minute,
	Message:  "Too many attempts. Please wait a minute before trying again.",
})
