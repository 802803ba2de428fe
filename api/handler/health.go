package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitelens/models"
	"github.com/use-agent/sitelens/scraper"
)

// maxHealthyFetches is the in-flight fetch count above which health degrades.
// Each fetch is a whole Chrome process, so this is effectively a load gauge.
const maxHealthyFetches = 8

// Health returns a handler for GET /api/v1/health.
func Health(f *scraper.Fetcher, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := f.Stats()

		status := "healthy"
		if stats.Active > maxHealthyFetches {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Fetches: stats,
			Version: "0.1.0",
		})
	}
}
