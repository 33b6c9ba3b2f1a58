package tui

import (
	"context"
	"fmt"
	"html"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/slyde/internal/config"
	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/storage"
)

const (
	testSlideshowURL = "https://www.archdaily.com/1012345/0/5f3a9c"
	testArticleURL   = "https://www.archdaily.com/1012345/casa-azul"
	testPayload      = `[{"url_large":"https://images.example.com/a.jpg","url_medium":"https://images.example.com/a-m.jpg","image_alt":"Facade","caption":"<p>Photo by <strong>Ana</strong></p>"},` +
		`{"url_large":"https://images.example.com/b.jpg","image_alt":"Courtyard","caption":""},` +
		`{"url_large":"https://images.example.com/c.jpg","image_alt":"Section","caption":"Drawing"}]`
)

func testPage(title string) string {
	return fmt.Sprintf("<html><head><title>%s</title></head><body>\n<div\n  data-images=\"%s\"\n></div>\n</body></html>",
		title, html.EscapeString(testPayload))
}

type stubFetcher struct {
	pages map[string]string
}

func (f *stubFetcher) FetchPage(_ context.Context, rawURL string) ([]byte, error) {
	if body, ok := f.pages[rawURL]; ok {
		return []byte(body), nil
	}
	return nil, fmt.Errorf("%w: HTTP 404 for %s", slideshow.ErrFetch, rawURL)
}

type stubLauncher struct {
	mu         sync.Mutex
	opened     []string
	fullscreen []bool
	err        error
}

func (l *stubLauncher) Open(imageURL string, fullscreen bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opened = append(l.opened, imageURL)
	l.fullscreen = append(l.fullscreen, fullscreen)
	return l.err
}

type testEnv struct {
	app      *App
	store    storage.ProjectStore
	launcher *stubLauncher
	copied   []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.TestConfig()
	cfg.UI.ControlsTimeout = 0
	return newTestEnvWithConfig(t, cfg)
}

func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	store := storage.NewMemoryStore()
	fetcher := &stubFetcher{pages: map[string]string{
		testSlideshowURL: testPage("Gallery of Casa Azul / Studio Norte - 1"),
		testArticleURL:   `<style>#newsroom-picture-att-id-5f3a9c{}</style>`,
	}}
	svc := slideshow.NewService(cfg.Source, fetcher, storage.NewRecorder(store))

	env := &testEnv{store: store, launcher: &stubLauncher{}}
	env.app = NewApp(cfg, svc, store, nil)
	env.app.launcher = env.launcher
	env.app.copyText = func(s string) error {
		env.copied = append(env.copied, s)
		return nil
	}
	env.app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return env
}

// runCmd executes cmd and any batched commands, collecting their messages.
// Callers must not pass timer commands.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// feed runs cmd and delivers its messages to the app, dropping the
// follow-up commands.
func (e *testEnv) feed(cmd tea.Cmd) {
	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		e.app.Update(msg)
	}
}

func (e *testEnv) press(msg tea.KeyMsg) tea.Cmd {
	_, cmd := e.app.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// openSlideshow types url into the input and runs the load.
func (e *testEnv) openSlideshow(t *testing.T, url string) {
	t.Helper()
	e.app.setView(ViewInput)
	e.app.urlInput.SetValue(url)
	e.feed(e.press(tea.KeyMsg{Type: tea.KeyEnter}))
}

// feedAll is feed that also runs the commands returned by Update. Only use
// it when no timers can be scheduled.
func (e *testEnv) feedAll(cmd tea.Cmd) {
	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		_, next := e.app.Update(msg)
		e.feedAll(next)
	}
}
