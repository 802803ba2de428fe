package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/sitelens/models"
)

const imagesHTML = `<html><body>
<img src="https://cdn.example.com/a.png">
<img class="hero" src="/banner.jpg">
<img src="data:image/png;base64,AAAA">
<img src="https://cdn.example.com/a.png">
<img class="hero" src="https://cdn.example.com/hero2.png">
<img>
</body></html>`

func TestImageURLs_AllImages(t *testing.T) {
	urls, err := ImageURLs(imagesHTML, "https://example.com/shop", "")
	require.NoError(t, err)

	// Relative srcs resolve against the page URL, data URIs and srcless
	// imgs drop. A repeated src is reported once per occurrence.
	assert.Equal(t, []string{
		"https://cdn.example.com/a.png",
		"https://example.com/banner.jpg",
		"https://cdn.example.com/a.png",
		"https://cdn.example.com/hero2.png",
	}, urls)
}

func TestImageURLs_SelectorGroup(t *testing.T) {
	html := `<html><body>
<img class="hero" src="https://cdn.example.com/hero.png">
<img class="banner" src="https://cdn.example.com/banner.png">
<img class="thumb" src="https://cdn.example.com/thumb.png">
</body></html>`

	urls, err := ImageURLs(html, "https://example.com/", "img.hero, img.banner")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cdn.example.com/hero.png",
		"https://cdn.example.com/banner.png",
	}, urls)
}

func TestImageURLs_Selector(t *testing.T) {
	urls, err := ImageURLs(imagesHTML, "https://example.com/", "img.hero")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/banner.jpg",
		"https://cdn.example.com/hero2.png",
	}, urls)
}

func TestImageURLs_SelectorMatchesNothing(t *testing.T) {
	urls, err := ImageURLs(imagesHTML, "https://example.com/", "img.missing")
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestImageURLs_SelectorMatchesNonImages(t *testing.T) {
	// A selector matching non-img elements contributes nothing.
	urls, err := ImageURLs(imagesHTML, "https://example.com/", "body, img.hero")
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}

func TestImageURLs_InvalidSelector(t *testing.T) {
	_, err := ImageURLs(imagesHTML, "https://example.com/", "img[")
	require.Error(t, err)

	var ae *models.AnalyzeError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, models.ErrCodeInvalidInput, ae.Code)
}
