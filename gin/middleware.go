package gin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/scratches"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// identityKey is the context key holding the caller's API key.
const identityKey = "api_key"

// limiterIdleTTL is how long an unused client limiter is kept.
const limiterIdleTTL = time.Hour

// RequestLog logs every request with its status and duration.
func RequestLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"client", c.ClientIP(),
			"duration", time.Since(begin),
		)
	}
}

// Auth accepts requests carrying one of apiKeys in an X-API-Key header or
// an Authorization: Bearer header.
func Auth(apiKeys []string) gin.HandlerFunc {
	var keys []string
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}

	return func(c *gin.Context) {
		key := extractAPIKey(c)
		if key == "" {
			respondError(c, scratches.Errorf(scratches.EUNAUTHORIZED, "missing API key"))
			return
		}
		for _, k := range keys {
			if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
				c.Set(identityKey, key)
				c.Next()
				return
			}
		}
		respondError(c, scratches.Errorf(scratches.EUNAUTHORIZED, "invalid API key"))
	}
}

func extractAPIKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit applies a token bucket per client, identified by API key when
// Auth ran and by IP otherwise. Idle buckets are evicted as new clients
// arrive.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if burst < 1 {
		burst = 1
	}
	var mu sync.Mutex
	limiters := make(map[string]*limiterEntry)

	get := func(identity string, now time.Time) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		entry, ok := limiters[identity]
		if !ok {
			for id, e := range limiters {
				if now.Sub(e.lastSeen) > limiterIdleTTL {
					delete(limiters, id)
				}
			}
			entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			limiters[identity] = entry
		}
		entry.lastSeen = now
		return entry.limiter
	}

	return func(c *gin.Context) {
		identity := c.ClientIP()
		if key, ok := c.Get(identityKey); ok {
			identity = key.(string)
		}

		if !get(identity, time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: ErrorDetail{Code: "rate_limited", Message: "rate limit exceeded, please slow down"},
			})
			return
		}
		c.Next()
	}
}
