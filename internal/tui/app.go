package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/slyde/internal/config"
	"github.com/pders01/slyde/internal/media"
	"github.com/pders01/slyde/internal/search"
	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/storage"
)

type imageOpener interface {
	Open(imageURL string, fullscreen bool) error
}

type App struct {
	config     *config.Config
	slides     *slideshow.Service
	store      storage.ProjectStore
	searcher   search.Searcher
	launcher   imageOpener
	copyText   func(string) error
	keyHandler *KeyHandler

	urlInput     textinput.Model
	searchInput  textinput.Model
	recentList   list.Model
	favoriteList list.Model
	searchList   list.Model
	spinner      spinner.Model

	view         View
	previousView View // where list views return to
	returnView   View // where a slideshow or a failed load returns to

	show            *slideshow.Slideshow
	index           int
	favorite        bool
	fullscreen      bool
	controlsVisible bool
	controlsSeq     int

	recents          []*storage.Project
	recentsExhausted bool
	loadingRecents   bool

	pendingSearchQuery string
	searchSeq          int

	loadSeq    int
	cancelLoad context.CancelFunc
	initialURL string

	width      int
	height     int
	status     string
	statusKind StatusKind
	err        error

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	captionCache    map[int]string
}

// NewApp wires the viewer. A nil searcher falls back to scanning the store.
func NewApp(cfg *config.Config, slides *slideshow.Service, store storage.ProjectStore, searcher search.Searcher) *App {
	if searcher == nil {
		searcher = search.NewEngine(store)
	}
	ApplyColors(cfg.UI.Colors)

	ui := textinput.New()
	ui.Placeholder = "https://www.archdaily.com/1012345/project-name"
	ui.CharLimit = 2048
	ui.Focus()

	si := textinput.New()
	si.Placeholder = "Search viewed projects..."
	si.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:       cfg,
		slides:       slides,
		store:        store,
		searcher:     searcher,
		launcher:     media.NewLauncher(cfg),
		copyText:     clipboard.WriteAll,
		urlInput:     ui,
		searchInput:  si,
		recentList:   newProjectList("› recently viewed"),
		favoriteList: newProjectList("› favorites"),
		searchList:   newProjectList("› search results"),
		spinner:      sp,
		view:         ViewInput,
		previousView: ViewInput,
		returnView:   ViewInput,
		captionCache: map[int]string{},
	}

	app.keyHandler = NewKeyHandler(app, cfg)
	return app
}

func newProjectList(title string) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return l
}

// SetInitialURL makes the app load rawURL as soon as it starts.
func (a *App) SetInitialURL(rawURL string) {
	a.initialURL = strings.TrimSpace(rawURL)
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, textinput.Blink}
	if a.initialURL != "" {
		cmds = append(cmds, a.loadSlideshow(a.initialURL, ViewInput))
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.view != ViewLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case slideshowLoadedMsg:
		if msg.seq != a.loadSeq || a.view != ViewLoading {
			return a, nil
		}
		a.cancelLoad = nil
		a.show = msg.show
		a.index = 0
		a.favorite = msg.favorite
		a.fullscreen = false
		a.captionCache = map[int]string{}
		a.view = ViewSlideshow
		a.clearStatus()
		return a, a.revealControls()

	case loadFailedMsg:
		if msg.seq != a.loadSeq || a.view != ViewLoading {
			return a, nil
		}
		a.cancelLoad = nil
		a.setView(a.returnView)
		a.err = msg.err
		return a, nil

	case recentsLoadedMsg:
		a.loadingRecents = false
		if msg.offset != len(a.recents) {
			return a, nil
		}
		a.recents = append(a.recents, msg.projects...)
		a.recentsExhausted = len(msg.projects) < a.pageSize()
		a.recentList.SetItems(projectItems(a.recents))
		switch {
		case len(a.recents) == 0:
			a.setStatus(MsgNoRecents, StatusInfo)
		case a.status == MsgLoadingMore:
			a.clearStatus()
		}
		return a, nil

	case favoritesLoadedMsg:
		a.favoriteList.SetItems(projectItems(msg.projects))
		if len(msg.projects) == 0 {
			a.setStatus(MsgNoFavorites, StatusInfo)
		}
		return a, nil

	case favoriteToggledMsg:
		return a, a.applyFavorite(msg.articleID, msg.favorite)

	case searchDebounceFireMsg:
		if msg.seq != a.searchSeq || a.view != ViewSearch {
			return a, nil
		}
		if len(a.pendingSearchQuery) < 2 {
			a.searchList.SetItems([]list.Item{})
			return a, nil
		}
		return a, a.performSearch(a.pendingSearchQuery)

	case searchResultsMsg:
		if a.view != ViewSearch || msg.query != a.pendingSearchQuery {
			return a, nil
		}
		items := make([]list.Item, len(msg.results))
		for i, r := range msg.results {
			items[i] = projectItem{project: r.Project, score: r.Score}
		}
		a.searchList.SetItems(items)
		if len(items) == 0 {
			a.setStatus(MsgNoResults, StatusInfo)
		} else {
			a.setStatus(MsgResultsCount(len(items)), StatusInfo)
		}
		return a, nil

	case hideControlsMsg:
		if msg.seq == a.controlsSeq {
			a.controlsVisible = false
		}
		return a, nil

	case statusMsg:
		a.err = nil
		a.setStatus(msg.text, msg.kind)
		return a, nil

	case errorMsg:
		a.err = msg.err
		return a, nil
	}

	// cursor blink and other input housekeeping
	switch a.view {
	case ViewInput:
		var cmd tea.Cmd
		a.urlInput, cmd = a.urlInput.Update(msg)
		return a, cmd
	case ViewSearch:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	listHeight := max(height-3, 5)
	a.recentList.SetSize(width, listHeight)
	a.favoriteList.SetSize(width, listHeight)
	a.searchList.SetSize(width, max(height-10, 5))

	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = width
	}
	a.urlInput.Width = min(inputWidth, 80)
	a.searchInput.Width = inputWidth
}

// setView switches views and moves input focus along.
func (a *App) setView(v View) {
	a.view = v
	switch v {
	case ViewInput:
		a.searchInput.Blur()
		a.urlInput.Focus()
	case ViewSearch:
		a.urlInput.Blur()
		a.searchInput.Focus()
	default:
		a.urlInput.Blur()
		a.searchInput.Blur()
	}
}

func (a *App) abortLoad() {
	if a.cancelLoad != nil {
		a.cancelLoad()
		a.cancelLoad = nil
	}
	a.loadSeq++
}

// applyFavorite reflects a toggled favorite everywhere it is shown.
func (a *App) applyFavorite(articleID string, fav bool) tea.Cmd {
	title := articleID
	if a.show != nil && a.show.Metadata.ArticleID == articleID {
		a.favorite = fav
		title = a.show.Metadata.Title
	}

	for _, l := range []*list.Model{&a.recentList, &a.searchList} {
		items := l.Items()
		for i, it := range items {
			if pi, ok := it.(projectItem); ok && pi.project.ArticleID == articleID {
				pi.project.IsFavorite = fav
				title = pi.project.Title
				items[i] = pi
			}
		}
		l.SetItems(items)
	}

	a.err = nil
	a.setStatus(MsgFavorite(title, fav), StatusSuccess)

	if a.view == ViewFavorites {
		return a.loadFavorites()
	}
	return nil
}

func projectItems(projects []*storage.Project) []list.Item {
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{project: p}
	}
	return items
}

func (a *App) View() string {
	bodyHeight := max(a.height-2, 1)
	var content string

	switch a.view {
	case ViewInput:
		content = renderCentered(a.width, bodyHeight, lipgloss.JoinVertical(
			lipgloss.Center,
			GetWelcomeMessage(a.keyHandler.modifier),
			"",
			renderInputFrame(a.urlInput.View(), a.urlInput.Focused(), a.urlInput.Width),
		))

	case ViewLoading:
		content = renderCentered(a.width, bodyHeight,
			a.spinner.View()+" "+renderMuted(MsgLoadingSlideshow))

	case ViewSlideshow:
		if a.fullscreen {
			return a.slideshowView(a.height)
		}
		content = a.slideshowView(bodyHeight)

	case ViewRecents:
		if len(a.recents) == 0 {
			content = renderCentered(a.width, bodyHeight, renderMuted(MsgNoRecents))
		} else {
			content = a.recentList.View()
		}

	case ViewFavorites:
		if len(a.favoriteList.Items()) == 0 {
			content = renderCentered(a.width, bodyHeight, renderMuted(MsgNoFavorites))
		} else {
			content = a.favoriteList.View()
		}

	case ViewSearch:
		helpText := "Type to search • Tab/↓: results • Esc: back"
		if !a.searchInput.Focused() {
			helpText = "↑↓: navigate • Enter: open • Tab: search box • Esc: back"
		}
		content = lipgloss.NewStyle().
			Width(a.width).
			Height(bodyHeight).
			MaxHeight(bodyHeight).
			Render(lipgloss.JoinVertical(
				lipgloss.Top,
				renderHeader("› search", "", a.width),
				"",
				renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
				renderHelp(helpText),
				"",
				a.searchList.View(),
			))
	}

	bar := a.statusBar()
	if bar == "" {
		return content
	}

	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width-1, 0)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, bar)
}

func (a *App) slideshowView(height int) string {
	if a.show == nil || len(a.show.Images) == 0 {
		return renderCentered(a.width, height, renderMuted("This slideshow has no images"))
	}

	img := a.show.Images[a.index]
	pos := CounterStyle.Render(counter(a.index, len(a.show.Images)))
	if a.favorite {
		pos += " " + FavoriteStyle.Render("★")
	}

	alt := AltTextStyle.Render(img.ImageAlt)
	if img.ImageAlt == "" {
		alt = renderMuted("(no description)")
	}

	rows := []string{}
	if !a.fullscreen {
		rows = append(rows, renderHeader(a.show.Metadata.Title, "#"+a.show.Metadata.ArticleID, a.width-16), "")
	}
	rows = append(rows,
		pos,
		"",
		alt,
		renderMuted(truncateMiddle(img.URLLarge, a.width-4)),
	)
	if caption := a.renderCaption(a.index); caption != "" {
		rows = append(rows, "", caption)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if a.fullscreen {
		return renderCentered(a.width, height, body)
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		MaxHeight(height).
		Padding(0, 1).
		Render(body)
}

func (a *App) statusBar() string {
	// hidden slideshow controls leave room for errors only
	if a.view == ViewSlideshow && !a.controlsVisible && a.err == nil {
		return ""
	}

	commands := strings.Join(a.keyHandler.GetHelpForCurrentView(), " • ")
	line := renderMuted(commands)
	if a.err != nil {
		line = a.renderStatus()
	} else if a.status != "" {
		line = a.renderStatus() + "  " + renderMuted(commands)
	}

	return lipgloss.NewStyle().
		Width(a.width).
		MaxHeight(1).
		Padding(0, 1).
		Render(line)
}
