package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/slyde/internal/search"
	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/storage"
)

type View int

const (
	ViewInput View = iota
	ViewLoading
	ViewSlideshow
	ViewRecents
	ViewFavorites
	ViewSearch
)

func (v View) String() string {
	switch v {
	case ViewInput:
		return "input"
	case ViewLoading:
		return "loading"
	case ViewSlideshow:
		return "slideshow"
	case ViewRecents:
		return "recents"
	case ViewFavorites:
		return "favorites"
	case ViewSearch:
		return "search"
	default:
		return "unknown"
	}
}

// projectItem is a bookmarked project in the recents, favorites and search lists.
type projectItem struct {
	project *storage.Project
	score   float64
}

func (i projectItem) Title() string {
	title := i.project.Title
	if title == "" {
		title = slideshow.DefaultTitle
	}
	if i.project.IsFavorite {
		return FavoriteStyle.Render("★ ") + title
	}
	return title
}

func (i projectItem) Description() string {
	desc := "#" + i.project.ArticleID
	if !i.project.ViewedAt.IsZero() {
		desc += TimeStyle.Render(" • viewed " + i.project.ViewedAt.Format("Jan 2, 15:04"))
	}
	return lipgloss.NewStyle().Foreground(MutedColor).Render(desc)
}

func (i projectItem) FilterValue() string { return i.project.Title }

type slideshowLoadedMsg struct {
	seq      int
	show     *slideshow.Slideshow
	favorite bool
}

type loadFailedMsg struct {
	seq int
	err error
}

type recentsLoadedMsg struct {
	offset   int
	projects []*storage.Project
}

type favoritesLoadedMsg struct {
	projects []*storage.Project
}

type favoriteToggledMsg struct {
	articleID string
	favorite  bool
}

type searchResultsMsg struct {
	query   string
	results []*search.Result
}

type searchDebounceFireMsg struct {
	seq int
}

type hideControlsMsg struct {
	seq int
}

type statusMsg struct {
	text string
	kind StatusKind
}

type errorMsg struct {
	err error
}
