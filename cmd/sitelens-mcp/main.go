// Command sitelens-mcp exposes the sitelens capabilities as MCP tools over
// stdio, for agent hosts (Claude Desktop, editors, orchestrators).
//
// Unlike the HTTP service, the tools run the pipelines in-process: each
// invocation launches its own browser (and, for OCR, its own Tesseract
// client) and tears it down before the result is returned.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/sitelens/analyzer"
	"github.com/use-agent/sitelens/config"
	"github.com/use-agent/sitelens/content"
	"github.com/use-agent/sitelens/models"
	"github.com/use-agent/sitelens/ocr"
	"github.com/use-agent/sitelens/report"
	"github.com/use-agent/sitelens/scraper"
)

func main() {
	cfg := config.Load()

	// stdout carries the MCP stream; logs must go to stderr.
	initLogger(cfg.Log)

	fetcher := scraper.NewFetcher(cfg.Browser, cfg.Fetch)
	images := scraper.NewImageFetcher(cfg.Browser.DefaultProxy, cfg.OCR.MaxImageBytes)
	reader := ocr.NewReader(images.Fetch, cfg.OCR)
	extractor := content.NewExtractor()

	s := server.NewMCPServer(
		"sitelens",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	analyzeSiteTool := mcp.NewTool("analyze_site",
		mcp.WithDescription("Analyze a website's structure: navigation, product categories, products with prices, and a price-extremes summary. Renders the page in a headless browser and returns a plain-text report."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to analyze"),
		),
		mcp.WithBoolean("include_products",
			mcp.Description("Include per-product details and the price analysis (default: true)"),
		),
		mcp.WithString("wait_for",
			mcp.Description("CSS selector to wait for before extraction (for pages that render product grids asynchronously)"),
		),
		mcp.WithBoolean("stealth",
			mcp.Description("Enable anti-bot-detection evasions"),
		),
	)
	s.AddTool(analyzeSiteTool, handleAnalyzeSite(fetcher))

	extractImageTextTool := mcp.NewTool("extract_image_text",
		mcp.WithDescription("Run OCR over the images on a web page and return the transcribed text per image. Images that fail OCR or contain no readable text are omitted."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page whose images to transcribe"),
		),
		mcp.WithString("image_selector",
			mcp.Description("CSS selector restricting which img elements are transcribed (default: all images)"),
		),
	)
	s.AddTool(extractImageTextTool, handleExtractImageText(fetcher, reader))

	pageContentTool := mcp.NewTool("page_content",
		mcp.WithDescription("Extract the main article content of a web page (Mozilla Readability) as markdown, plain text, or HTML."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page"),
		),
		mcp.WithString("format",
			mcp.Description("Output format (default: markdown)"),
			mcp.Enum("markdown", "text", "html"),
		),
	)
	s.AddTool(pageContentTool, handlePageContent(fetcher, extractor))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleAnalyzeSite(fetcher *scraper.Fetcher) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		includeProducts := request.GetBool("include_products", true)

		page, err := fetcher.Fetch(ctx, &scraper.FetchRequest{
			URL:     url,
			WaitFor: request.GetString("wait_for", ""),
			Stealth: request.GetBool("stealth", false),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error analyzing site: %s", errMessage(err))), nil
		}

		snap := analyzer.BuildSnapshot(page.HTML, page.Title)
		text := report.Format(snap, report.Options{IncludeProducts: includeProducts})

		return mcp.NewToolResultText(text), nil
	}
}

func handleExtractImageText(fetcher *scraper.Fetcher, reader *ocr.Reader) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		page, err := fetcher.Fetch(ctx, &scraper.FetchRequest{URL: url})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error: %s", errMessage(err))), nil
		}

		urls, err := analyzer.ImageURLs(page.HTML, page.FinalURL, request.GetString("image_selector", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error: %s", errMessage(err))), nil
		}

		start := time.Now()
		results := reader.ExtractAll(ctx, urls)
		slog.Debug("ocr pass complete",
			"images", len(urls),
			"transcripts", len(results),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)

		return mcp.NewToolResultText(ocr.FormatResults(results)), nil
	}
}

func handlePageContent(fetcher *scraper.Fetcher, extractor *content.Extractor) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		page, err := fetcher.Fetch(ctx, &scraper.FetchRequest{URL: url})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error: %s", errMessage(err))), nil
		}

		result, err := extractor.Extract(page.HTML, url, request.GetString("format", "markdown"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error: %s", errMessage(err))), nil
		}

		var header string
		if result.Title != "" {
			header = fmt.Sprintf("Title: %s\nSource: %s\n\n", result.Title, page.FinalURL)
		}

		return mcp.NewToolResultText(header + result.Content), nil
	}
}

// errMessage unwraps the typed error message, falling back to Error().
func errMessage(err error) string {
	if ae, ok := err.(*models.AnalyzeError); ok {
		if ae.Err != nil {
			return fmt.Sprintf("%s: %v", ae.Message, ae.Err)
		}
		return ae.Message
	}
	return err.Error()
}

// initLogger configures slog to write to stderr, away from the MCP stream.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
