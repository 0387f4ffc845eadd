package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipRateLimiter stores a token bucket per client IP. Samples arrive as
// periodic polls per device, so per-IP buckets are the right scope.
type ipRateLimiter struct {
	mu  sync.Mutex
	ips map[string]*rate.Limiter
	r   rate.Limit
	b   int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

// limiter returns the rate limiter for an IP, creating one on first use.
func (i *ipRateLimiter) limiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	l, ok := i.ips[ip]
	if !ok {
		l = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = l
	}
	return l
}

// RateLimiter is a middleware for IP-based rate limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiters := newIPRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiters.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
