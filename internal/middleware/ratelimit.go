package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/librekpi/backend/internal/response"
)

// IPRateLimiter is a per-IP token bucket. Each write-heavy route group
// gets its own limiter with its own per-minute budget, so hammering
// the feedback endpoints cannot starve logins.
type IPRateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	budget   int
	interval time.Duration
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

// NewIPRateLimiter creates a limiter allowing budget requests per interval.
func NewIPRateLimiter(budget int, interval time.Duration) *IPRateLimiter {
	rl := &IPRateLimiter{
		buckets:  make(map[string]*bucket),
		budget:   budget,
		interval: interval,
	}

	// Evict idle IPs so the map stays bounded.
	go func() {
		for range time.Tick(time.Minute) {
			rl.evictStale()
		}
	}()

	return rl
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *IPRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		b = &bucket{tokens: rl.budget, lastSeen: time.Now()}
		rl.buckets[ip] = b
	}

	refill := int(time.Since(b.lastSeen)/rl.interval) * rl.budget
	if refill > 0 {
		b.tokens += refill
		if b.tokens > rl.budget {
			b.tokens = rl.budget
		}
		b.lastSeen = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (rl *IPRateLimiter) evictStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.buckets {
		if time.Since(b.lastSeen) > 3*rl.interval {
			delete(rl.buckets, ip)
		}
	}
}
