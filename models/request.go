package models

// AnalyzeRequest is the payload for POST /api/v1/analyze.
type AnalyzeRequest struct {
	// URL is the target page to analyze. Required.
	URL string `json:"url" binding:"required,url"`

	// IncludeProducts controls whether per-product detail blocks and the
	// price analysis appear in the report. Category names are always listed.
	// Default: true.
	IncludeProducts *bool `json:"include_products,omitempty"`

	// WaitFor is an optional CSS selector to wait for before extraction.
	// Useful for SPAs that render product grids asynchronously.
	WaitFor string `json:"wait_for,omitempty"`

	// Stealth enables anti-bot-detection evasions (e.g. navigator.webdriver masking).
	// Default: false.
	Stealth bool `json:"stealth,omitempty"`

	// Timeout is the maximum duration in seconds for the entire operation
	// (navigation + rendering + extraction). Default: 30. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// MaxAge enables the report cache: a cached report younger than MaxAge
	// milliseconds is returned without re-fetching. 0 disables caching.
	MaxAge int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *AnalyzeRequest) Defaults() {
	if r.IncludeProducts == nil {
		t := true
		r.IncludeProducts = &t
	}
	if r.Timeout == 0 {
		r.Timeout = 30
	}
}

// ImageTextRequest is the payload for POST /api/v1/imagetext.
type ImageTextRequest struct {
	// URL is the target page whose images are OCR'd. Required.
	URL string `json:"url" binding:"required,url"`

	// ImageSelector restricts OCR to img elements matching this CSS
	// selector. Empty selects every img on the page.
	ImageSelector string `json:"image_selector,omitempty"`

	// Timeout is the maximum duration in seconds for fetching the page.
	// OCR runs after the browser is released. Default: 30. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`
}

// Defaults applies default values to unset fields.
func (r *ImageTextRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 30
	}
}

// ContentRequest is the payload for POST /api/v1/content.
type ContentRequest struct {
	// URL is the target page. Required.
	URL string `json:"url" binding:"required,url"`

	// Format controls the response body format.
	// Allowed: "markdown" (default), "html", "text".
	Format string `json:"format,omitempty" binding:"omitempty,oneof=markdown html text"`

	// Stealth enables anti-bot-detection evasions.
	Stealth bool `json:"stealth,omitempty"`

	// Timeout is the maximum duration in seconds. Default: 30. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// MaxAge enables the report cache, in milliseconds. 0 disables caching.
	MaxAge int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ContentRequest) Defaults() {
	if r.Format == "" {
		r.Format = "markdown"
	}
	if r.Timeout == 0 {
		r.Timeout = 30
	}
}
