package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitelens/api/handler"
	"github.com/use-agent/sitelens/api/middleware"
	"github.com/use-agent/sitelens/cache"
	"github.com/use-agent/sitelens/config"
	"github.com/use-agent/sitelens/content"
	"github.com/use-agent/sitelens/ocr"
	"github.com/use-agent/sitelens/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(f *scraper.Fetcher, rd *ocr.Reader, ex *content.Extractor, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(f, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Site structure analysis
	protected.POST("/analyze", handler.Analyze(f, cc))

	// Image OCR
	protected.POST("/imagetext", handler.ImageText(f, rd))

	// Main-article content
	protected.POST("/content", handler.Content(f, ex, cc))

	return r
}
