package tui

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/slyde/internal/debuglog"
)

// captionMarkdown converts an image caption, which the source site delivers
// as an HTML fragment, into markdown.
func captionMarkdown(caption string) string {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return ""
	}
	if !strings.ContainsAny(caption, "<&") {
		return caption
	}

	md, err := htmltomarkdown.ConvertString(caption)
	if err != nil {
		debuglog.Debugf("caption conversion failed, showing raw text: %v", err)
		return caption
	}
	return strings.TrimSpace(md)
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
		a.captionCache = map[int]string{}
	}

	return a.glamourRenderer, nil
}

// renderCaption returns the rendered caption of image i, caching the result
// until the renderer changes or another slideshow loads.
func (a *App) renderCaption(i int) string {
	if a.show == nil || i < 0 || i >= len(a.show.Images) {
		return ""
	}

	r, err := a.getRenderer()
	if err != nil {
		return captionMarkdown(a.show.Images[i].Caption)
	}
	if s, ok := a.captionCache[i]; ok {
		return s
	}

	md := captionMarkdown(a.show.Images[i].Caption)
	if md == "" {
		a.captionCache[i] = ""
		return ""
	}

	rendered, err := r.Render(md)
	if err != nil {
		rendered = md
	}
	rendered = strings.Trim(rendered, "\n")
	a.captionCache[i] = rendered
	return rendered
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
