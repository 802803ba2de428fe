package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)

	assert.True(t, cfg.Browser.Headless)
	assert.False(t, cfg.Browser.NoSandbox)

	assert.Equal(t, 30*time.Second, cfg.Fetch.DefaultTimeout)
	assert.Equal(t, 120*time.Second, cfg.Fetch.MaxTimeout)
	assert.Equal(t, []string{"Stylesheet", "Font", "Media"}, cfg.Fetch.BlockedResourceTypes)

	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, 20, cfg.OCR.MaxImages)
	assert.Equal(t, int64(10*1024*1024), cfg.OCR.MaxImageBytes)

	assert.True(t, cfg.Auth.Enabled)
	assert.Empty(t, cfg.Auth.APIKeys)

	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)

	assert.Equal(t, 1000, cfg.Cache.MaxEntries)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SITELENS_HOST", "127.0.0.1")
	t.Setenv("SITELENS_PORT", "9090")
	t.Setenv("SITELENS_HEADLESS", "false")
	t.Setenv("SITELENS_DEFAULT_TIMEOUT", "45s")
	t.Setenv("SITELENS_OCR_LANGUAGES", "eng, deu")
	t.Setenv("SITELENS_API_KEYS", "key-a,key-b")
	t.Setenv("SITELENS_RATE_RPS", "2.5")
	t.Setenv("SITELENS_LOG_FORMAT", "text")

	cfg := Load()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 45*time.Second, cfg.Fetch.DefaultTimeout)
	assert.Equal(t, []string{"eng", "deu"}, cfg.OCR.Languages)
	assert.Equal(t, []string{"key-a", "key-b"}, cfg.Auth.APIKeys)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SITELENS_PORT", "not-a-port")
	t.Setenv("SITELENS_HEADLESS", "maybe")
	t.Setenv("SITELENS_DEFAULT_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Fetch.DefaultTimeout)
}

func TestEnvSliceOr_TrimsAndSkipsEmpty(t *testing.T) {
	t.Setenv("SITELENS_BLOCKED_RESOURCES", " Image ,, Script ")

	cfg := Load()
	assert.Equal(t, []string{"Image", "Script"}, cfg.Fetch.BlockedResourceTypes)
}
