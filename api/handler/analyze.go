package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitelens/analyzer"
	"github.com/use-agent/sitelens/cache"
	"github.com/use-agent/sitelens/models"
	"github.com/use-agent/sitelens/report"
	"github.com/use-agent/sitelens/scraper"
)

// analyzeVariant builds the cache-key variant for an analyze request. Every
// option that changes the rendered report or the fetched DOM (stealth pages
// can render differently) must appear here.
func analyzeVariant(req *models.AnalyzeRequest) string {
	return fmt.Sprintf("products=%t|wait=%s|stealth=%t",
		*req.IncludeProducts, req.WaitFor, req.Stealth)
}

// Analyze returns a handler for POST /api/v1/analyze.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Fetcher.Fetch      → rendered HTML + title   (records navigation_ms)
//  3. analyzer.BuildSnapshot + report.Format       (records extraction_ms)
//  4. Fill Timing, return 200.
func Analyze(f *scraper.Fetcher, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.AnalyzeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		variant := analyzeVariant(&req)

		// ── 1b. Cache lookup ───────────────────────────────────────
		if cc != nil && req.MaxAge > 0 {
			cacheKey := cache.Key(req.URL, "analyze", variant)
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				c.JSON(http.StatusOK, models.AnalyzeResponse{
					Success:     true,
					FinalURL:    cached.FinalURL,
					Report:      cached.Text,
					CacheStatus: "hit",
					Timing: models.TimingInfo{
						TotalMs: time.Since(totalStart).Milliseconds(),
					},
				})
				return
			}
		}

		// ── 2. Fetch ────────────────────────────────────────────────
		navStart := time.Now()
		page, err := f.Fetch(c.Request.Context(), &scraper.FetchRequest{
			URL:     req.URL,
			WaitFor: req.WaitFor,
			Stealth: req.Stealth,
			Timeout: time.Duration(req.Timeout) * time.Second,
		})
		navigationMs := time.Since(navStart).Milliseconds()

		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				NavigationMs: navigationMs,
			})
			return
		}

		// ── 3. Snapshot + report ────────────────────────────────────
		extractStart := time.Now()
		snap := analyzer.BuildSnapshot(page.HTML, page.Title)
		text := report.Format(snap, report.Options{IncludeProducts: *req.IncludeProducts})
		extractionMs := time.Since(extractStart).Milliseconds()

		resp := models.AnalyzeResponse{
			Success:  true,
			FinalURL: page.FinalURL,
			Report:   text,
			Snapshot: snap,
			Timing: models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				NavigationMs: navigationMs,
				ExtractionMs: extractionMs,
			},
		}

		// ── 4. Cache store ──────────────────────────────────────────
		if cc != nil && req.MaxAge > 0 {
			cc.Set(cache.Key(req.URL, "analyze", variant), cache.Report{
				Text:     text,
				FinalURL: page.FinalURL,
			})
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps an AnalyzeError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	analyzeErr, ok := err.(*models.AnalyzeError)
	if !ok {
		analyzeErr = models.NewAnalyzeError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(analyzeErr), models.AnalyzeResponse{
		Success: false,
		Error:   analyzeErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.AnalyzeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
