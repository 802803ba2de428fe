package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitelens/analyzer"
	"github.com/use-agent/sitelens/models"
	"github.com/use-agent/sitelens/ocr"
	"github.com/use-agent/sitelens/scraper"
)

// ImageText returns a handler for POST /api/v1/imagetext.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Fetcher.Fetch          → rendered HTML       (records navigation_ms)
//  3. analyzer.ImageURLs     → candidate image URLs
//  4. ocr.Reader.ExtractAll  → per-image transcripts (records extraction_ms)
//
// The browser is gone before OCR starts; only image URLs cross the boundary.
func ImageText(f *scraper.Fetcher, rd *ocr.Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ImageTextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ImageTextResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 2. Fetch ────────────────────────────────────────────────
		navStart := time.Now()
		page, err := f.Fetch(c.Request.Context(), &scraper.FetchRequest{
			URL:     req.URL,
			Timeout: time.Duration(req.Timeout) * time.Second,
		})
		navigationMs := time.Since(navStart).Milliseconds()

		if err != nil {
			respondImageTextError(c, err, models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				NavigationMs: navigationMs,
			})
			return
		}

		// ── 3. Collect image URLs ───────────────────────────────────
		urls, err := analyzer.ImageURLs(page.HTML, page.FinalURL, req.ImageSelector)
		if err != nil {
			respondImageTextError(c, err, models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				NavigationMs: navigationMs,
			})
			return
		}

		// ── 4. OCR pass ─────────────────────────────────────────────
		ocrStart := time.Now()
		results := rd.ExtractAll(c.Request.Context(), urls)
		extractionMs := time.Since(ocrStart).Milliseconds()

		c.JSON(http.StatusOK, models.ImageTextResponse{
			Success:     true,
			Text:        ocr.FormatResults(results),
			Results:     results,
			ImagesFound: len(urls),
			Timing: models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				NavigationMs: navigationMs,
				ExtractionMs: extractionMs,
			},
		})
	}
}

// respondImageTextError is respondError with the imagetext response shape.
func respondImageTextError(c *gin.Context, err error, timing models.TimingInfo) {
	analyzeErr, ok := err.(*models.AnalyzeError)
	if !ok {
		analyzeErr = models.NewAnalyzeError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(analyzeErr), models.ImageTextResponse{
		Success: false,
		Error:   analyzeErr.ToDetail(),
		Timing:  timing,
	})
}
