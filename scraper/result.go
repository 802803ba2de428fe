package scraper

import "time"

// FetchRequest describes one page fetch.
type FetchRequest struct {
	// URL is the absolute URL to navigate to.
	URL string

	// WaitFor is an optional CSS selector to wait for after the page
	// settles, before the DOM is captured.
	WaitFor string

	// Stealth enables navigator.webdriver masking and friends.
	Stealth bool

	// Timeout bounds the whole fetch. Zero means the configured default.
	Timeout time.Duration
}

// PageResult is the rendered DOM captured from a fetched page.
type PageResult struct {
	// HTML is the rendered page HTML.
	HTML string

	// Title is document.title at capture time.
	Title string

	// FinalURL is the URL after following all redirects.
	FinalURL string
}
