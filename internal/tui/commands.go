package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/slyde/internal/debuglog"
	"github.com/pders01/slyde/internal/search"
	"github.com/pders01/slyde/internal/storage"
)

const (
	defaultPageSize = 20
	searchDebounce  = 150 * time.Millisecond
	searchLimit     = 50
)

func (a *App) pageSize() int {
	if a.config.UI.PageSize > 0 {
		return a.config.UI.PageSize
	}
	return defaultPageSize
}

// startLoad switches to the loading view and runs fetch. Earlier loads still
// in flight are canceled and their results ignored.
func (a *App) startLoad(returnTo View, fetch func(ctx context.Context, seq int) tea.Msg) tea.Cmd {
	if a.cancelLoad != nil {
		a.cancelLoad()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelLoad = cancel
	a.loadSeq++
	seq := a.loadSeq
	a.returnView = returnTo
	a.setView(ViewLoading)
	a.err = nil
	a.setStatus(MsgLoadingSlideshow, StatusInfo)

	return tea.Batch(a.spinner.Tick, func() tea.Msg { return fetch(ctx, seq) })
}

func (a *App) loadSlideshow(rawURL string, returnTo View) tea.Cmd {
	return a.startLoad(returnTo, func(ctx context.Context, seq int) tea.Msg {
		show, err := a.slides.Parse(ctx, rawURL)
		if err != nil {
			return loadFailedMsg{seq: seq, err: loadError{err: err}}
		}
		return slideshowLoadedMsg{seq: seq, show: show, favorite: a.isFavorite(show.Metadata.ArticleID)}
	})
}

func (a *App) loadProject(p *storage.Project, returnTo View) tea.Cmd {
	return a.startLoad(returnTo, func(ctx context.Context, seq int) tea.Msg {
		show, err := a.slides.ParseShareID(ctx, p.ShareID())
		if err != nil {
			return loadFailedMsg{seq: seq, err: loadError{err: err}}
		}
		return slideshowLoadedMsg{seq: seq, show: show, favorite: a.isFavorite(show.Metadata.ArticleID)}
	})
}

// isFavorite reports false when the store cannot answer.
func (a *App) isFavorite(articleID string) bool {
	fav, err := a.store.IsFavorite(articleID)
	if err != nil {
		debuglog.Warnf("checking favorite %s: %v", articleID, err)
	}
	return fav
}

func (a *App) loadRecents(offset int) tea.Cmd {
	limit := a.pageSize()
	return func() tea.Msg {
		projects, err := a.store.ListRecents(limit, offset)
		if err != nil {
			return errorMsg{err: wrapErr("loading recents", err)}
		}
		return recentsLoadedMsg{offset: offset, projects: projects}
	}
}

func (a *App) loadFavorites() tea.Cmd {
	return func() tea.Msg {
		projects, err := a.store.ListFavorites()
		if err != nil {
			return errorMsg{err: wrapErr("loading favorites", err)}
		}
		return favoritesLoadedMsg{projects: projects}
	}
}

func (a *App) toggleFavorite(articleID string) tea.Cmd {
	return func() tea.Msg {
		fav, err := a.store.ToggleFavorite(articleID)
		if err != nil {
			return errorMsg{err: wrapErr("toggling favorite", err)}
		}
		return favoriteToggledMsg{articleID: articleID, favorite: fav}
	}
}

func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.searcher.Search(query, searchLimit)
		if err != nil {
			return errorMsg{err: wrapErr("search", err)}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

func (a *App) scheduleSearch(query string) tea.Cmd {
	a.pendingSearchQuery = query
	a.searchSeq++
	seq := a.searchSeq
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg { return searchDebounceFireMsg{seq: seq} })
}

func (a *App) openImage(imageURL string, fullscreen bool) tea.Cmd {
	return func() tea.Msg {
		if err := a.launcher.Open(imageURL, fullscreen); err != nil {
			return errorMsg{err: wrapErr("opening image", err)}
		}
		return statusMsg{text: "Opened in " + a.viewerName(), kind: StatusSuccess}
	}
}

func (a *App) copyLink(link string) tea.Cmd {
	return func() tea.Msg {
		if err := a.copyText(link); err != nil {
			return errorMsg{err: wrapErr("copying link", err)}
		}
		return statusMsg{text: MsgLinkCopied, kind: StatusSuccess}
	}
}

// revealControls shows the slideshow controls and schedules hiding them.
func (a *App) revealControls() tea.Cmd {
	a.controlsVisible = true
	a.controlsSeq++
	timeout := a.config.UI.ControlsTimeout
	if timeout <= 0 {
		return nil
	}
	seq := a.controlsSeq
	return tea.Tick(timeout, func(time.Time) tea.Msg { return hideControlsMsg{seq: seq} })
}

func (a *App) searchStatus() string {
	name := fmt.Sprintf("%T", a.searcher)
	if ds, ok := a.searcher.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			return MsgSearchEngine(name, n)
		}
	}
	return MsgSearchEngine(name, -1)
}

func (a *App) viewerName() string {
	if v, ok := a.launcher.(interface{ Viewer() string }); ok && v.Viewer() != "" {
		return v.Viewer()
	}
	return "viewer"
}
