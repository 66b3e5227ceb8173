package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const clientIdleTimeout = 5 * time.Minute

// RateLimiterConfig holds the per client token bucket settings
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters keeps one token bucket per client IP.
type clientLimiters struct {
	mu        sync.Mutex
	config    RateLimiterConfig
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

func (l *clientLimiters) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > clientIdleTimeout {
		for key, client := range l.clients {
			if now.Sub(client.lastSeen) > clientIdleTimeout {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	client, ok := l.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// NewRateLimiterMiddleware limits each client IP to its own token bucket.
func NewRateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	limiters := &clientLimiters{
		config:  config,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
	limiters.lastSweep = limiters.now()

	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
