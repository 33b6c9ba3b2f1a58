package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/slyde/internal/config"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	keys        config.KeyBindings
	modifier    string
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifier := cfg.Keys.Modifier
	if modifier == "" {
		modifier = "ctrl"
	}
	return &KeyHandler{
		app:         app,
		config:      cfg,
		keys:        cfg.Keys.Bindings,
		modifier:    modifier,
		modifierKey: modifier + "+",
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return kh.app, tea.Quit
	}

	// any key brings hidden slideshow controls back
	var reveal tea.Cmd
	if kh.app.view == ViewSlideshow {
		reveal = kh.app.revealControls()
	}

	if model, cmd, handled := kh.handleGlobalKeys(key); handled {
		return model, tea.Batch(cmd, reveal)
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, tea.Batch(cmd, reveal)
	}

	model, cmd := kh.delegateToCharm(msg)
	return model, tea.Batch(cmd, reveal)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewInput:
		return kh.app.urlInput.Focused()
	case ViewSearch:
		return kh.app.searchInput.Focused()
	default:
		return false
	}
}

// handleGlobalKeys handles the modifier shortcuts that work in every view,
// text inputs included.
func (kh *KeyHandler) handleGlobalKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case kh.modifierKey + kh.keys.Search:
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.modifierKey + kh.keys.Recents:
		model, cmd := kh.showRecents()
		return model, cmd, true
	case kh.modifierKey + kh.keys.Favorites:
		model, cmd := kh.showFavorites()
		return model, cmd, true
	case kh.modifierKey + kh.keys.NewSlideshow:
		kh.app.abortLoad()
		kh.app.clearStatus()
		kh.app.urlInput.Reset()
		kh.app.setView(ViewInput)
		return kh.app, textinput.Blink, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if kh.app.view == ViewSearch {
			if len(kh.app.searchList.Items()) > 0 {
				kh.app.searchInput.Blur()
				kh.app.searchList.Select(0)
			}
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewInput:
		input := strings.TrimSpace(kh.app.urlInput.Value())
		if input == "" {
			return kh.app, nil
		}
		return kh.app, kh.app.loadSlideshow(input, ViewInput)

	case ViewSearch:
		if items := kh.app.searchList.Items(); len(items) > 0 {
			if item, ok := items[0].(projectItem); ok {
				return kh.app, kh.app.loadProject(item.project, ViewSearch)
			}
		}
		return kh.app, nil

	default:
		return kh.app, nil
	}
}

// delegateToTextInput passes the key to the focused text input
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewInput:
		var cmd tea.Cmd
		kh.app.urlInput, cmd = kh.app.urlInput.Update(msg)
		return kh.app, cmd

	case ViewSearch:
		prev := kh.app.pendingSearchQuery
		var cmd tea.Cmd
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)

		query := sanitizeSearchInput(kh.app.searchInput.Value())
		if query != prev {
			return kh.app, tea.Batch(cmd, kh.app.scheduleSearch(query))
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// handleCustomKeys handles our action keys outside text inputs
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case kh.keys.Quit:
		return kh.app, tea.Quit, true
	case kh.keys.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}

	switch kh.app.view {
	case ViewSlideshow:
		return kh.handleSlideshowKeys(key)
	case ViewRecents, ViewFavorites, ViewSearch:
		return kh.handleListKeys(key)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleSlideshowKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if a.show == nil {
		return a, nil, false
	}
	n := len(a.show.Images)

	switch key {
	case kh.keys.Next, "l", " ":
		a.index = wrapIndex(a.index, 1, n)
		return a, nil, true

	case kh.keys.Previous, "h":
		a.index = wrapIndex(a.index, -1, n)
		return a, nil, true

	case "home", "g":
		a.index = 0
		return a, nil, true

	case "end", "G":
		a.index = max(n-1, 0)
		return a, nil, true

	case kh.keys.ToggleFavorite:
		return a, a.toggleFavorite(a.show.Metadata.ArticleID), true

	case kh.keys.Fullscreen:
		a.fullscreen = !a.fullscreen
		return a, nil, true

	case kh.keys.OpenImage:
		if n == 0 {
			return a, func() tea.Msg { return errorMsg{err: errNoSlideshow} }, true
		}
		a.setStatus(MsgOpeningImage, StatusInfo)
		return a, a.openImage(a.show.Images[a.index].URLLarge, a.fullscreen), true

	case kh.keys.CopyLink:
		return a, a.copyLink(a.show.URL), true
	}

	return a, nil, false
}

func (kh *KeyHandler) handleListKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	if a.view == ViewSearch {
		switch key {
		case "tab", "shift+tab":
			a.searchInput.Focus()
			return a, nil, true
		case "up":
			if a.searchList.Index() == 0 {
				a.searchInput.Focus()
				return a, nil, true
			}
		}
	}

	item, ok := kh.selectedProject()
	if !ok {
		return a, nil, false
	}

	switch key {
	case "enter":
		return a, a.loadProject(item.project, a.view), true
	case kh.keys.ToggleFavorite:
		return a, a.toggleFavorite(item.project.ArticleID), true
	}
	return a, nil, false
}

func (kh *KeyHandler) selectedProject() (projectItem, bool) {
	var selected any
	switch kh.app.view {
	case ViewRecents:
		selected = kh.app.recentList.SelectedItem()
	case ViewFavorites:
		selected = kh.app.favoriteList.SelectedItem()
	case ViewSearch:
		selected = kh.app.searchList.SelectedItem()
	}
	item, ok := selected.(projectItem)
	return item, ok
}

// delegateToCharm lets the bubbles list handle navigation keys.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd

	switch a.view {
	case ViewRecents:
		a.recentList, cmd = a.recentList.Update(msg)
		return a, tea.Batch(cmd, kh.maybeLoadMoreRecents())
	case ViewFavorites:
		a.favoriteList, cmd = a.favoriteList.Update(msg)
		return a, cmd
	case ViewSearch:
		a.searchList, cmd = a.searchList.Update(msg)
		return a, cmd
	}
	return a, nil
}

// maybeLoadMoreRecents fetches the next page once the cursor reaches the
// last loaded project.
func (kh *KeyHandler) maybeLoadMoreRecents() tea.Cmd {
	a := kh.app
	if a.recentsExhausted || a.loadingRecents || len(a.recents) == 0 {
		return nil
	}
	if a.recentList.Index() < len(a.recents)-1 {
		return nil
	}
	a.loadingRecents = true
	a.setStatus(MsgLoadingMore, StatusInfo)
	return a.loadRecents(len(a.recents))
}

func (kh *KeyHandler) showRecents() (tea.Model, tea.Cmd) {
	a := kh.app
	a.abortLoad()
	kh.rememberOrigin()
	a.clearStatus()
	a.recents = nil
	a.recentsExhausted = false
	a.loadingRecents = true
	a.recentList.SetItems(nil)
	a.recentList.Select(0)
	a.setView(ViewRecents)
	return a, a.loadRecents(0)
}

func (kh *KeyHandler) showFavorites() (tea.Model, tea.Cmd) {
	a := kh.app
	a.abortLoad()
	kh.rememberOrigin()
	a.clearStatus()
	a.favoriteList.Select(0)
	a.setView(ViewFavorites)
	return a, a.loadFavorites()
}

// enterSearchMode transitions to search view
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	a := kh.app
	a.abortLoad()
	kh.rememberOrigin()
	a.searchInput.Reset()
	a.pendingSearchQuery = ""
	a.searchList.SetItems(nil)
	a.setView(ViewSearch)
	a.err = nil
	a.setStatus(a.searchStatus(), StatusInfo)
	return a, textinput.Blink
}

// rememberOrigin records where list views return to. Moving between list
// views keeps the original origin.
func (kh *KeyHandler) rememberOrigin() {
	switch kh.app.view {
	case ViewInput, ViewSlideshow:
		kh.app.previousView = kh.app.view
	case ViewLoading:
		kh.app.previousView = kh.app.returnView
	}
}

// navigateBack implements back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewLoading:
		a.abortLoad()
		a.clearStatus()
		a.setView(a.returnView)
		return a, nil

	case ViewSlideshow:
		if a.fullscreen {
			a.fullscreen = false
			return a, nil
		}
		a.clearStatus()
		switch a.returnView {
		case ViewRecents:
			return kh.showRecentsKeepingOrigin()
		case ViewFavorites:
			a.setView(ViewFavorites)
			return a, a.loadFavorites()
		default:
			a.setView(a.returnView)
			return a, nil
		}

	case ViewRecents, ViewFavorites, ViewSearch:
		a.clearStatus()
		back := a.previousView
		if back == ViewSlideshow && a.show == nil {
			back = ViewInput
		}
		a.setView(back)
		return a, nil

	case ViewInput:
		if a.show != nil {
			a.setView(ViewSlideshow)
			return a, a.revealControls()
		}
		return a, tea.Quit

	default:
		return a, tea.Quit
	}
}

// showRecentsKeepingOrigin reloads recents after viewing one of them, so
// the list reflects the new view order.
func (kh *KeyHandler) showRecentsKeepingOrigin() (tea.Model, tea.Cmd) {
	origin := kh.app.previousView
	model, cmd := kh.showRecents()
	kh.app.previousView = origin
	return model, cmd
}

// sanitizeSearchInput trims, flattens whitespace and limits query length
func sanitizeSearchInput(input string) string {
	input = strings.Join(strings.Fields(input), " ")
	if r := []rune(input); len(r) > 256 {
		input = string(r[:256])
	}
	return input
}

// GetHelpForCurrentView returns the action keys for the status bar
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	mod := kh.modifierKey
	k := kh.keys

	switch kh.app.view {
	case ViewInput:
		return []string{"enter: open", mod + k.Recents + ": recents", mod + k.Favorites + ": favorites", mod + k.Search + ": search"}

	case ViewLoading:
		return []string{k.Back + ": cancel"}

	case ViewSlideshow:
		return []string{
			fmt.Sprintf("%s/%s: navigate", k.Previous, k.Next),
			k.ToggleFavorite + ": favorite",
			k.Fullscreen + ": fullscreen",
			k.OpenImage + ": open image",
			k.CopyLink + ": copy link",
			k.Back + ": back",
		}

	case ViewRecents, ViewFavorites:
		return []string{"enter: view", k.ToggleFavorite + ": favorite", mod + k.NewSlideshow + ": new", k.Back + ": back"}

	case ViewSearch:
		return []string{mod + k.Recents + ": recents", mod + k.Favorites + ": favorites"}

	default:
		return []string{}
	}
}
