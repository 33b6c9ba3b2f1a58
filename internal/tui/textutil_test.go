package tui

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/slyde/internal/slideshow"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		limit  int
		end    string
		middle string
	}{
		{"fits", "casa", 10, "casa", "casa"},
		{"exact", "casa", 4, "casa", "casa"},
		{"shortened", "https://example.com/image.jpg", 11, "https://ex…", "https…e.jpg"},
		{"one", "casa", 1, "…", "…"},
		{"zero", "casa", 0, "", ""},
		{"runes", "Café Ñandú", 5, "Café…", "Ca…dú"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.end, truncateEnd(tt.s, tt.limit))
			assert.Equal(t, tt.middle, truncateMiddle(tt.s, tt.limit))
		})
	}
}

func TestCounter(t *testing.T) {
	assert.Equal(t, "1 / 3", counter(0, 3))
	assert.Equal(t, "3 / 3", counter(2, 3))
	assert.Equal(t, "0 / 0", counter(0, 0))
}

func TestWrapIndex(t *testing.T) {
	tests := []struct {
		i, delta, n, want int
	}{
		{0, 1, 3, 1},
		{2, 1, 3, 0},
		{0, -1, 3, 2},
		{1, -1, 3, 0},
		{0, 1, 1, 0},
		{0, -1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d%+d/%d", tt.i, tt.delta, tt.n), func(t *testing.T) {
			assert.Equal(t, tt.want, wrapIndex(tt.i, tt.delta, tt.n))
		})
	}
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("%w: HTTP 500", slideshow.ErrFetch)
	assert.Equal(t, wrapped.Error(), userMessage(loadError{err: wrapped}))
	assert.Equal(t, slideshow.ErrMalformedPayload.Error(), userMessage(loadError{err: errors.New("boom")}))
	assert.Equal(t, "copying link: boom", userMessage(wrapErr("copying link", errors.New("boom"))))
	assert.Nil(t, wrapErr("ctx", nil))
}

func TestCaptionMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    string
	}{
		{"empty", "   ", ""},
		{"plain", "  Courtesy of the architects ", "Courtesy of the architects"},
		{"markup", "<p>Photo by <strong>Ana</strong></p>", "Photo by **Ana**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, captionMarkdown(tt.caption))
		})
	}
}

func TestRenderCaptionCached(t *testing.T) {
	env := newTestEnv(t)
	env.openSlideshow(t, testSlideshowURL)
	a := env.app

	first := a.renderCaption(0)
	assert.Contains(t, first, "Ana")
	assert.Equal(t, first, a.captionCache[0])
	assert.Empty(t, a.renderCaption(1), "images without captions render nothing")
}
