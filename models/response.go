package models

// AnalyzeResponse is the response for POST /api/v1/analyze.
type AnalyzeResponse struct {
	// Success indicates whether the analysis completed without errors.
	Success bool `json:"success"`

	// FinalURL is the URL after following all redirects.
	FinalURL string `json:"final_url,omitempty"`

	// Report is the rendered multi-section text report.
	Report string `json:"report,omitempty"`

	// Snapshot is the structured extraction the report was rendered from.
	Snapshot *SiteSnapshot `json:"snapshot,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// ImageTextResponse is the response for POST /api/v1/imagetext.
type ImageTextResponse struct {
	Success bool `json:"success"`

	// Text is the joined per-image transcript report.
	Text string `json:"text"`

	// Results lists the per-image transcripts the text was joined from.
	Results []ImageResult `json:"results"`

	// ImagesFound is the number of candidate image URLs collected before
	// OCR ran; compare with len(Results) to see how many were skipped.
	ImagesFound int `json:"images_found"`

	Timing TimingInfo   `json:"timing"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// ContentResponse is the response for POST /api/v1/content.
type ContentResponse struct {
	Success bool `json:"success"`

	// Content is the extracted page content in the requested format.
	Content string `json:"content,omitempty"`

	// Title is the page title (readability's, falling back to document.title).
	Title string `json:"title,omitempty"`

	// FinalURL is the URL after following all redirects.
	FinalURL string `json:"final_url,omitempty"`

	// TokenEstimate is a rough token count of Content.
	TokenEstimate int `json:"token_estimate"`

	Timing      TimingInfo   `json:"timing"`
	CacheStatus string       `json:"cache_status,omitempty"`
	Error       *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// NavigationMs is the time spent navigating and rendering the page.
	NavigationMs int64 `json:"navigation_ms,omitempty"`

	// ExtractionMs is the time spent building the snapshot or running OCR.
	ExtractionMs int64 `json:"extraction_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string     `json:"status"` // "healthy" or "degraded"
	Uptime  string     `json:"uptime"`
	Fetches FetchStats `json:"fetches"`
	Version string     `json:"version"`
}

// FetchStats reports in-flight browser fetches.
type FetchStats struct {
	Active int `json:"active"`
}
