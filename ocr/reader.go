// Package ocr runs Tesseract over page images. Images are processed strictly
// one at a time — OCR is memory-hungry and a page can carry dozens of images,
// so the engine never holds more than one decoded image.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/use-agent/sitelens/config"
	"github.com/use-agent/sitelens/models"
)

// FetchFunc downloads the raw bytes of one image URL.
type FetchFunc func(ctx context.Context, imageURL string) ([]byte, error)

// client is the slice of the Tesseract API the Reader uses.
// *gosseract.Client satisfies it.
type client interface {
	SetLanguage(langs ...string) error
	SetImageFromBytes(data []byte) error
	Text() (string, error)
	Close() error
}

// newClient is swapped out in tests.
var newClient = func() client { return gosseract.NewClient() }

// Reader drives the OCR pass. Each ExtractAll call creates its own Tesseract
// client and releases it on completion, so requests stay isolated.
type Reader struct {
	fetch FetchFunc
	cfg   config.OCRConfig
}

// NewReader creates a Reader that downloads images with fetch.
func NewReader(fetch FetchFunc, cfg config.OCRConfig) *Reader {
	return &Reader{fetch: fetch, cfg: cfg}
}

// ExtractAll OCRs the given image URLs sequentially and returns one
// ImageResult per image that produced a non-empty transcript.
//
// Per-image failures (download, decode, OCR) are logged and skipped — one
// bad image never aborts the batch. Transcripts that trim to nothing are
// dropped. The Tesseract client is released on every exit path.
func (r *Reader) ExtractAll(ctx context.Context, urls []string) []models.ImageResult {
	results := []models.ImageResult{}
	if len(urls) == 0 {
		return results
	}

	if r.cfg.MaxImages > 0 && len(urls) > r.cfg.MaxImages {
		slog.Warn("ocr: image list truncated",
			"found", len(urls), "max", r.cfg.MaxImages,
		)
		urls = urls[:r.cfg.MaxImages]
	}

	cl := newClient()
	defer func() {
		if err := cl.Close(); err != nil {
			slog.Warn("ocr: client close failed", "error", err)
		}
	}()

	if len(r.cfg.Languages) > 0 {
		if err := cl.SetLanguage(r.cfg.Languages...); err != nil {
			slog.Warn("ocr: language setup failed, using engine default",
				"languages", r.cfg.Languages, "error", err,
			)
		}
	}

	for _, imageURL := range urls {
		if ctx.Err() != nil {
			slog.Warn("ocr: batch cut short", "error", ctx.Err(),
				"processed", len(results), "total", len(urls),
			)
			break
		}

		text, err := r.extractOne(ctx, cl, imageURL)
		if err != nil {
			slog.Warn("ocr: image skipped", "image", imageURL, "error", err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		results = append(results, models.ImageResult{ImageURL: imageURL, Text: text})
	}

	return results
}

// extractOne downloads a single image and runs one OCR pass over it.
func (r *Reader) extractOne(ctx context.Context, cl client, imageURL string) (string, error) {
	body, err := r.fetch(ctx, imageURL)
	if err != nil {
		return "", models.NewAnalyzeError(models.ErrCodeOCR, "image download failed", err)
	}

	if err := cl.SetImageFromBytes(body); err != nil {
		return "", models.NewAnalyzeError(models.ErrCodeOCR, "image decode failed", err)
	}

	text, err := cl.Text()
	if err != nil {
		return "", models.NewAnalyzeError(models.ErrCodeOCR, "text recognition failed", err)
	}
	return text, nil
}

// FormatResults joins per-image transcripts into the caller-facing text:
// "Image <url>:" blocks separated by blank lines. Empty input yields "".
func FormatResults(results []models.ImageResult) string {
	if len(results) == 0 {
		return ""
	}
	blocks := make([]string, len(results))
	for i, res := range results {
		blocks[i] = fmt.Sprintf("Image %s:\n%s", res.ImageURL, res.Text)
	}
	return strings.Join(blocks, "\n\n")
}
