package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/sitelens/config"
	"github.com/use-agent/sitelens/models"
)

// fakeClient scripts per-image transcripts keyed by the image bytes.
type fakeClient struct {
	texts     map[string]string
	lastImage string
	langs     []string
	closed    bool
}

func (f *fakeClient) SetLanguage(langs ...string) error {
	f.langs = langs
	return nil
}

func (f *fakeClient) SetImageFromBytes(data []byte) error {
	f.lastImage = string(data)
	return nil
}

func (f *fakeClient) Text() (string, error) {
	text, ok := f.texts[f.lastImage]
	if !ok {
		return "", errors.New("unrecognized image")
	}
	return text, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

// useFakeClient swaps the Tesseract constructor for the test's lifetime.
func useFakeClient(t *testing.T, fake *fakeClient) {
	t.Helper()
	orig := newClient
	newClient = func() client { return fake }
	t.Cleanup(func() { newClient = orig })
}

// echoFetch returns the URL itself as the image bytes so the fake client can
// key transcripts by URL.
func echoFetch(_ context.Context, imageURL string) ([]byte, error) {
	return []byte(imageURL), nil
}

func TestExtractAll(t *testing.T) {
	fake := &fakeClient{texts: map[string]string{
		"https://shop.test/a.png": "SUMMER SALE",
		"https://shop.test/b.png": "  FREE SHIPPING  ",
	}}
	useFakeClient(t, fake)

	rd := NewReader(echoFetch, config.OCRConfig{Languages: []string{"eng"}, MaxImages: 20})
	results := rd.ExtractAll(context.Background(), []string{
		"https://shop.test/a.png",
		"https://shop.test/b.png",
	})

	require.Len(t, results, 2)
	assert.Equal(t, models.ImageResult{ImageURL: "https://shop.test/a.png", Text: "SUMMER SALE"}, results[0])
	assert.Equal(t, "FREE SHIPPING", results[1].Text, "transcripts are trimmed")
	assert.Equal(t, []string{"eng"}, fake.langs)
	assert.True(t, fake.closed, "client must be released")
}

func TestExtractAll_FailedImageSkipped(t *testing.T) {
	fake := &fakeClient{texts: map[string]string{
		"https://shop.test/good.png": "READ ME",
	}}
	useFakeClient(t, fake)

	rd := NewReader(echoFetch, config.OCRConfig{MaxImages: 20})
	results := rd.ExtractAll(context.Background(), []string{
		"https://shop.test/broken.png",
		"https://shop.test/good.png",
	})

	require.Len(t, results, 1)
	assert.Equal(t, "https://shop.test/good.png", results[0].ImageURL)
}

func TestExtractAll_DownloadFailureSkipped(t *testing.T) {
	fake := &fakeClient{texts: map[string]string{}}
	useFakeClient(t, fake)

	fetch := func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("404")
	}
	rd := NewReader(fetch, config.OCRConfig{MaxImages: 20})
	results := rd.ExtractAll(context.Background(), []string{"https://shop.test/a.png"})

	assert.Empty(t, results)
	assert.True(t, fake.closed)
}

func TestExtractAll_EmptyTranscriptDropped(t *testing.T) {
	fake := &fakeClient{texts: map[string]string{
		"https://shop.test/blank.png": "   \n\t ",
	}}
	useFakeClient(t, fake)

	rd := NewReader(echoFetch, config.OCRConfig{MaxImages: 20})
	results := rd.ExtractAll(context.Background(), []string{"https://shop.test/blank.png"})

	assert.Empty(t, results)
}

func TestExtractAll_TruncatesToMaxImages(t *testing.T) {
	fake := &fakeClient{texts: map[string]string{
		"u1": "one", "u2": "two", "u3": "three",
	}}
	useFakeClient(t, fake)

	rd := NewReader(echoFetch, config.OCRConfig{MaxImages: 2})
	results := rd.ExtractAll(context.Background(), []string{"u1", "u2", "u3"})

	require.Len(t, results, 2)
	assert.Equal(t, "u1", results[0].ImageURL)
	assert.Equal(t, "u2", results[1].ImageURL)
}

func TestExtractAll_CancelledContext(t *testing.T) {
	fake := &fakeClient{texts: map[string]string{"u1": "one"}}
	useFakeClient(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rd := NewReader(echoFetch, config.OCRConfig{MaxImages: 20})
	results := rd.ExtractAll(ctx, []string{"u1"})

	assert.Empty(t, results)
	assert.True(t, fake.closed)
}

func TestExtractAll_NoURLs(t *testing.T) {
	rd := NewReader(echoFetch, config.OCRConfig{})
	assert.Empty(t, rd.ExtractAll(context.Background(), nil))
}

func TestFormatResults(t *testing.T) {
	results := []models.ImageResult{
		{ImageURL: "https://shop.test/a.png", Text: "SUMMER SALE"},
		{ImageURL: "https://shop.test/b.png", Text: "FREE SHIPPING"},
	}
	want := "Image https://shop.test/a.png:\nSUMMER SALE\n\nImage https://shop.test/b.png:\nFREE SHIPPING"
	assert.Equal(t, want, FormatResults(results))
}

func TestFormatResults_Empty(t *testing.T) {
	assert.Equal(t, "", FormatResults(nil))
}
