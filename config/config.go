package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Fetch     FetchConfig
	OCR       OCRConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser launched for each request.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// DefaultProxy is the proxy URL for all requests.
	DefaultProxy string
}

// FetchConfig controls page fetching behavior.
type FetchConfig struct {
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout time.Duration // default: 30s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 120s

	// BlockedResourceTypes lists resource types blocked during navigation.
	// default: ["Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// OCRConfig controls the Tesseract OCR pass.
type OCRConfig struct {
	// Languages is passed to Tesseract. default: ["eng"]
	Languages []string

	// MaxImages caps how many images are OCR'd per request.
	MaxImages int // default: 20

	// MaxImageBytes caps the download size of a single image.
	MaxImageBytes int64 // default: 10 MB
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// CacheConfig controls the report cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached reports.
	MaxEntries int // default: 1000
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SITELENS_HOST", "0.0.0.0"),
			Port: envIntOr("SITELENS_PORT", 8080),
			Mode: envOr("SITELENS_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("SITELENS_HEADLESS", true),
			NoSandbox:    envBoolOr("SITELENS_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("SITELENS_BROWSER_BIN"),
			DefaultProxy: os.Getenv("SITELENS_PROXY"),
		},
		Fetch: FetchConfig{
			DefaultTimeout: envDurationOr("SITELENS_DEFAULT_TIMEOUT", 30*time.Second),
			MaxTimeout:     envDurationOr("SITELENS_MAX_TIMEOUT", 120*time.Second),
			BlockedResourceTypes: envSliceOr("SITELENS_BLOCKED_RESOURCES", []string{
				"Stylesheet", "Font", "Media",
			}),
		},
		OCR: OCRConfig{
			Languages:     envSliceOr("SITELENS_OCR_LANGUAGES", []string{"eng"}),
			MaxImages:     envIntOr("SITELENS_OCR_MAX_IMAGES", 20),
			MaxImageBytes: envInt64Or("SITELENS_OCR_MAX_IMAGE_BYTES", 10*1024*1024),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SITELENS_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SITELENS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SITELENS_RATE_RPS", 5.0),
			Burst:             envIntOr("SITELENS_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SITELENS_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("SITELENS_LOG_LEVEL", "info"),
			Format: envOr("SITELENS_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
