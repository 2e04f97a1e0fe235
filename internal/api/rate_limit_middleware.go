// internal/api/rate_limit_middleware.go
package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	perMin   int
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per key with the given burst.
// Keys idle for longer than ten minutes are forgotten.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		perMin:   perMinute,
		idleTTL:  10 * time.Minute,
		stop:     make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow consumes one token for key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiterFor(key).Allow()
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, key)
		}
	}
}

// retryAfterSeconds is the time until one token refills, rounded up.
func (rl *RateLimiter) retryAfterSeconds() int {
	interval := time.Minute / time.Duration(rl.perMin)
	return int((interval + time.Second - 1) / time.Second)
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// RateLimitByUser limits requests per session username, falling back to client IP.
func RateLimitByUser(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(usernameKey)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMin))
		if !rl.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			respondError(c, http.StatusTooManyRequests, ErrorRateLimited, msgRateLimited)
			return
		}
		c.Next()
	}
}
