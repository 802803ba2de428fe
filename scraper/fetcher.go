package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/sitelens/config"
	"github.com/use-agent/sitelens/models"
	"github.com/ysmood/gson"
)

// Fetcher renders pages in a headless browser. Every Fetch launches its own
// browser instance and tears it down before returning, so invocations are
// fully isolated from each other. It is safe for concurrent use.
type Fetcher struct {
	browserCfg    config.BrowserConfig
	fetchCfg      config.FetchConfig
	activeFetches atomic.Int32
}

// NewFetcher creates a Fetcher. No browser is launched until Fetch is called.
func NewFetcher(browserCfg config.BrowserConfig, fetchCfg config.FetchConfig) *Fetcher {
	return &Fetcher{browserCfg: browserCfg, fetchCfg: fetchCfg}
}

// Stats reports the number of in-flight fetches.
func (f *Fetcher) Stats() models.FetchStats {
	return models.FetchStats{Active: int(f.activeFetches.Load())}
}

// Fetch navigates a fresh browser page to req.URL, waits for the page to
// settle, and returns the rendered DOM.
//
// Lifecycle:
//
//	1. Timeout guard       – hard deadline on the entire operation
//	2. Launch browser      – one instance per call, stealth launcher flags
//	3. DEFER: teardown     – browser close on every exit path
//	4. Stealth injection   – before navigation, or it has no effect
//	5. Hijack mount        – block CSS/fonts/media before navigation
//	6. Idle listener setup – WaitRequestIdle must be registered before Navigate
//	7. Navigate + wait     – network idle, or DOM stable under interception
//	8. Capture             – page.HTML() + document.title + location.href
func (f *Fetcher) Fetch(ctx context.Context, req *FetchRequest) (*PageResult, error) {
	// ── 1. Timeout guard ──────────────────────────────────────────────
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = f.fetchCfg.DefaultTimeout
	}
	if timeout > f.fetchCfg.MaxTimeout {
		timeout = f.fetchCfg.MaxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	f.activeFetches.Add(1)
	defer f.activeFetches.Add(-1)

	// ── 2. Launch browser ─────────────────────────────────────────────
	l := launcher.New().
		Headless(f.browserCfg.Headless).
		NoSandbox(f.browserCfg.NoSandbox)

	if f.browserCfg.BrowserBin != "" {
		l = l.Bin(f.browserCfg.BrowserBin)
	}
	if f.browserCfg.DefaultProxy != "" {
		l = l.Proxy(f.browserCfg.DefaultProxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewAnalyzeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewAnalyzeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	// ── 3. CRITICAL DEFER: teardown on every exit path ───────────────
	// Uses the original (non-context-bound) browser reference so teardown
	// still succeeds after the request context has expired.
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			slog.Warn("teardown: browser close failed", "error", closeErr)
		}
		l.Cleanup()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewAnalyzeError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}

	// ── 4. Stealth injection ──────────────────────────────────────────
	if req.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 4b. Referer header ──────────────────────────────────────────
	// A plausible search referer gets past naive hotlink checks.
	if u, parseErr := url.Parse(req.URL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{
				"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
			},
		}.Call(page)
	}

	// ── 5. Mount hijack router (blocks Stylesheet/Font/Media) ────────
	router := setupHijack(page, f.fetchCfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 6. Bind request context + idle listener ──────────────────────
	p := page.Context(ctx)

	// WaitRequestIdle uses the Fetch CDP domain, which conflicts with
	// HijackRequests on Chromium 145+. With the hijack router mounted the
	// wait strategy falls back to WaitDOMStable.
	var waitIdle func()
	if router == nil {
		waitIdle = p.WaitRequestIdle(500*time.Millisecond, nil, nil, nil)
	}

	// ── 7. Navigate + wait ────────────────────────────────────────────
	if navErr := p.Navigate(req.URL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to target URL failed")
	}

	if waitIdle != nil {
		waitIdle()
	} else {
		if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
			slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
				"error", stableErr,
			)
		}
	}

	// ── 7b. Optional selector wait ───────────────────────────────────
	if req.WaitFor != "" {
		if _, waitErr := p.Element(req.WaitFor); waitErr != nil {
			return nil, categorizeError(waitErr, "wait_for selector never appeared")
		}
	}

	// ── 8. Capture rendered DOM ──────────────────────────────────────
	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to capture page HTML")
	}

	title := evalStringOrEmpty(p, `() => document.title`)
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &PageResult{
		HTML:     rawHTML,
		Title:    title,
		FinalURL: finalURL,
	}, nil
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (used for optional metadata only).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// categorizeError wraps raw errors into typed AnalyzeErrors so the API layer
// can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.AnalyzeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewAnalyzeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewAnalyzeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewAnalyzeError(models.ErrCodeNavigation, msg, err)
	}
}
