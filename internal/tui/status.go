package tui

import (
	"fmt"
	"strings"
)

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgLoadingSlideshow = "Loading slideshow…"
	MsgLoadingMore      = "Loading more…"
	MsgLinkCopied       = "Link copied"
	MsgNoResults        = "No results"
	MsgNoRecents        = "Nothing viewed yet"
	MsgNoFavorites      = "No favorites yet"
	MsgOpeningImage     = "Opening image…"
)

func MsgFavorite(title string, fav bool) string {
	if fav {
		return fmt.Sprintf("★ Added '%s' to favorites", strings.TrimSpace(title))
	}
	return fmt.Sprintf("Removed '%s' from favorites", strings.TrimSpace(title))
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgSearchEngine(name string, docs int) string {
	if docs < 0 {
		return "Search: " + name
	}
	return fmt.Sprintf("Search: %s • idx: %d docs", name, docs)
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
	a.err = nil
}

func (a *App) renderStatus() string {
	if a.err != nil {
		return StatusErrorStyle.Render("✗ " + userMessage(a.err))
	}
	switch a.statusKind {
	case StatusSuccess:
		return StatusSuccessStyle.Render(a.status)
	case StatusWarn:
		return StatusWarnStyle.Render(a.status)
	case StatusError:
		return StatusErrorStyle.Render(a.status)
	default:
		return StatusInfoStyle.Render(a.status)
	}
}
