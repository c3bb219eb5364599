// Package gin serves selector suggestions over HTTP.
package gin

import (
	"log/slog"
	"time"

	"github.com/fwojciec/scratches"
	"github.com/gin-gonic/gin"
)

// Config configures the router.
type Config struct {
	// Mode is the gin mode: "debug", "release" or "test".
	Mode string

	// APIKeys, when non-empty, are the keys accepted on the API routes.
	APIKeys []string

	// RequestsPerSecond and Burst bound each client's request rate. A zero
	// RequestsPerSecond disables rate limiting.
	RequestsPerSecond float64
	Burst             int

	Logger *slog.Logger
}

// NewRouter creates the HTTP handler for finder.
//
// Middleware chain:
//
//	Global:  Recovery → request log
//	API:     Auth (if keys are set) → RateLimit
//
// The health endpoint skips auth and rate limiting.
func NewRouter(finder scratches.SelectorFinder, cfg Config) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLog(logger))

	v1 := r.Group("/api/v1")
	v1.GET("/health", Health(time.Now()))

	protected := v1.Group("")
	if len(cfg.APIKeys) > 0 {
		protected.Use(Auth(cfg.APIKeys))
	}
	if cfg.RequestsPerSecond > 0 {
		protected.Use(RateLimit(cfg.RequestsPerSecond, cfg.Burst))
	}
	protected.POST("/selectors", SuggestSelectors(finder))

	return r
}
