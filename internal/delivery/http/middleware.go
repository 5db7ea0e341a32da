package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORSMiddleware handles CORS for the shopping-list client
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		if isAllowedOrigin(origin, allowedOrigins) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		}

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks if the origin is in the allowed list
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		// Support wildcard matching for chrome-extension://* style entries
		if strings.HasSuffix(allowed, "*") {
			prefix := strings.TrimSuffix(allowed, "*")
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		} else if origin == allowed {
			return true
		}
	}
	return false
}

const (
	maxTrackedClients = 1024
	clientIdleExpiry  = 3 * time.Minute
)

// ipLimiters tracks one rate limiter per client IP. The map is capped: once
// it is full, idle clients are evicted before a new one is admitted, so a
// churn of distinct IPs cannot grow it without bound.
type ipLimiters struct {
	mu         sync.Mutex
	perMinute  int
	maxSize    int
	idleExpiry time.Duration
	clients    map[string]*ipClient
}

type ipClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiters(perMinute int) *ipLimiters {
	return &ipLimiters{
		perMinute:  perMinute,
		maxSize:    maxTrackedClients,
		idleExpiry: clientIdleExpiry,
		clients:    make(map[string]*ipClient),
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if c, ok := l.clients[ip]; ok {
		c.lastSeen = now
		return c.limiter
	}

	if len(l.clients) >= l.maxSize {
		l.evict(now)
	}

	c := &ipClient{
		limiter:  rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute),
		lastSeen: now,
	}
	l.clients[ip] = c
	return c.limiter
}

// evict drops every client idle longer than the expiry. When none qualify,
// the least recently seen entry goes instead so the cap still holds.
func (l *ipLimiters) evict(now time.Time) {
	var oldestIP string
	var oldestSeen time.Time
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idleExpiry {
			delete(l.clients, ip)
			continue
		}
		if oldestIP == "" || c.lastSeen.Before(oldestSeen) {
			oldestIP, oldestSeen = ip, c.lastSeen
		}
	}
	if len(l.clients) >= l.maxSize && oldestIP != "" {
		delete(l.clients, oldestIP)
	}
}

// RateLimitMiddleware limits requests per client IP. A batch holds the shared
// browser for its whole run, so the ceiling mostly protects against a
// misbehaving client hammering the submit endpoint.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 30
	}

	limiters := newIPLimiters(perMinute)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// LoggerMiddleware logs requests (simple version for now)
func LoggerMiddleware() gin.HandlerFunc {
	return gin.Logger()
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}
