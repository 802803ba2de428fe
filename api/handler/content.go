package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitelens/cache"
	"github.com/use-agent/sitelens/content"
	"github.com/use-agent/sitelens/models"
	"github.com/use-agent/sitelens/scraper"
)

// contentVariant builds the cache-key variant for a content request.
func contentVariant(req *models.ContentRequest) string {
	return fmt.Sprintf("format=%s|stealth=%t", req.Format, req.Stealth)
}

// Content returns a handler for POST /api/v1/content: readability main-
// article extraction of the rendered page, converted to markdown/text/html.
func Content(f *scraper.Fetcher, ex *content.Extractor, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.ContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ContentResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		variant := contentVariant(&req)

		// ── Cache lookup ────────────────────────────────────────────
		if cc != nil && req.MaxAge > 0 {
			cacheKey := cache.Key(req.URL, "content", variant)
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				c.JSON(http.StatusOK, models.ContentResponse{
					Success:       true,
					Content:       cached.Text,
					Title:         cached.Title,
					FinalURL:      cached.FinalURL,
					TokenEstimate: cached.TokenEstimate,
					CacheStatus:   "hit",
					Timing: models.TimingInfo{
						TotalMs: time.Since(totalStart).Milliseconds(),
					},
				})
				return
			}
		}

		// ── Fetch ───────────────────────────────────────────────────
		navStart := time.Now()
		page, err := f.Fetch(c.Request.Context(), &scraper.FetchRequest{
			URL:     req.URL,
			Stealth: req.Stealth,
			Timeout: time.Duration(req.Timeout) * time.Second,
		})
		navigationMs := time.Since(navStart).Milliseconds()

		if err != nil {
			respondContentError(c, err, models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				NavigationMs: navigationMs,
			})
			return
		}

		// ── Extract + convert ───────────────────────────────────────
		extractStart := time.Now()
		result, err := ex.Extract(page.HTML, req.URL, req.Format)
		extractionMs := time.Since(extractStart).Milliseconds()

		if err != nil {
			respondContentError(c, err, models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				NavigationMs: navigationMs,
				ExtractionMs: extractionMs,
			})
			return
		}

		// Readability usually extracts a better title; document.title is
		// the safety net on raw-HTML fallback.
		title := result.Title
		if title == "" {
			title = page.Title
		}

		resp := models.ContentResponse{
			Success:       true,
			Content:       result.Content,
			Title:         title,
			FinalURL:      page.FinalURL,
			TokenEstimate: result.TokenEstimate,
			Timing: models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				NavigationMs: navigationMs,
				ExtractionMs: extractionMs,
			},
		}

		if cc != nil && req.MaxAge > 0 {
			cc.Set(cache.Key(req.URL, "content", variant), cache.Report{
				Text:          result.Content,
				Title:         title,
				FinalURL:      page.FinalURL,
				TokenEstimate: result.TokenEstimate,
			})
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondContentError is respondError with the content response shape.
func respondContentError(c *gin.Context, err error, timing models.TimingInfo) {
	analyzeErr, ok := err.(*models.AnalyzeError)
	if !ok {
		analyzeErr = models.NewAnalyzeError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(analyzeErr), models.ContentResponse{
		Success: false,
		Error:   analyzeErr.ToDetail(),
		Timing:  timing,
	})
}
