package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/slyde/internal/config"
	"github.com/pders01/slyde/internal/search"
	"github.com/pders01/slyde/internal/server"
	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/storage"
)

// sourceURL serves the pages under test/fixtures the way the source site
// lays them out.
var sourceURL string

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	fixtures := httptest.NewServer(http.FileServer(http.Dir(filepath.Join("..", "fixtures"))))
	sourceURL = fixtures.URL

	code := m.Run()

	fixtures.Close()
	os.Exit(code)
}

type testEnvironment struct {
	cfg      *config.Config
	store    storage.ProjectStore
	searcher search.Searcher
	api      *httptest.Server
}

func setupTestEnvironment(t *testing.T, dir string) *testEnvironment {
	t.Helper()

	cfg := config.TestConfig()
	cfg.Source.BaseURL = sourceURL
	cfg.Database.Path = filepath.Join(dir, "slyde.db")
	cfg.Database.SearchIndex = filepath.Join(dir, "index.bleve")

	store, err := storage.Open(cfg.Database)
	require.NoError(t, err)

	searcher := search.New(store, cfg.Database.SearchIndex)
	_, isIndex := searcher.(*search.BleveEngine)
	require.True(t, isIndex, "expected the bleve index, got %T", searcher)

	slides := slideshow.NewService(cfg.Source, slideshow.NewFetcher(cfg.Source), storage.NewRecorder(store))
	slides.AddRecorder(searcher.(slideshow.Recorder))

	api := httptest.NewServer(server.New(cfg.Server, slides, store, searcher).Handler())

	env := &testEnvironment{cfg: cfg, store: store, searcher: searcher, api: api}
	t.Cleanup(env.close)
	return env
}

func (e *testEnvironment) close() {
	if e.api == nil {
		return
	}
	e.api.Close()
	e.searcher.(*search.BleveEngine).Close()
	e.store.Close()
	e.api = nil
}

func (e *testEnvironment) call(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.api.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestIntegration_ParseBookmarkAndSearch(t *testing.T) {
	env := setupTestEnvironment(t, t.TempDir())

	var show slideshow.Slideshow
	status := env.call(t, http.MethodPost, "/api/parse-slideshow",
		map[string]string{"url": sourceURL + "/1012345/casa-azul"}, &show)
	require.Equal(t, http.StatusOK, status)

	require.Len(t, show.Images, 2)
	assert.Equal(t, "https://images.example.com/casa-azul/facade.jpg", show.Images[0].URLLarge)
	assert.Equal(t, "<p>Photo by Ana Ruiz</p>", show.Images[0].Caption)
	assert.Equal(t, slideshow.Metadata{
		ArticleID: "1012345",
		Nonce:     "5f3a9c",
		Title:     "Gallery of Casa Azul / Studio Norte",
		Thumbnail: "https://images.example.com/casa-azul/facade-m.jpg",
	}, show.Metadata)

	// a share id resolves without the article page
	var shared slideshow.Slideshow
	status = env.call(t, http.MethodGet, "/api/slideshow?s=1020001-ab12cd", nil, &shared)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Atrium", shared.Images[0].ImageAlt)
	assert.Empty(t, shared.Metadata.Thumbnail)

	var recents []storage.Project
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/projects", nil, &recents))
	require.Len(t, recents, 2)
	assert.Equal(t, "1020001", recents[0].ArticleID)
	assert.Equal(t, "1012345", recents[1].ArticleID)

	var fav map[string]any
	require.Equal(t, http.StatusOK, env.call(t, http.MethodPost, "/api/projects/1012345/favorite", nil, &fav))
	assert.Equal(t, true, fav["isFavorite"])

	var favorites []storage.Project
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/projects/favorites", nil, &favorites))
	require.Len(t, favorites, 1)
	assert.Equal(t, "1012345", favorites[0].ArticleID)

	var results []search.Result
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/search?q=casa", nil, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "1012345", results[0].Project.ArticleID)
	assert.True(t, results[0].Project.IsFavorite, "hits carry the stored favorite flag")

	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/search?q=library", nil, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "1020001", results[0].Project.ArticleID)
}

func TestIntegration_Errors(t *testing.T) {
	env := setupTestEnvironment(t, t.TempDir())

	tests := []struct {
		name   string
		url    string
		status int
		errMsg string
	}{
		{
			name:   "article without slideshow",
			url:    sourceURL + "/1030002/no-gallery",
			status: http.StatusNotFound,
			errMsg: slideshow.ErrNonceNotFound.Error(),
		},
		{
			name:   "missing page",
			url:    sourceURL + "/1040000/0/abc",
			status: http.StatusInternalServerError,
			errMsg: slideshow.ErrFetch.Error(),
		},
		{
			name:   "missing url",
			url:    "",
			status: http.StatusBadRequest,
			errMsg: slideshow.ErrMissingInput.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			status := env.call(t, http.MethodPost, "/api/parse-slideshow", map[string]string{"url": tt.url}, &body)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, body["error"], tt.errMsg)
		})
	}

	var recents []storage.Project
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/projects", nil, &recents))
	assert.Empty(t, recents, "failed parses are not bookmarked")

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, env.call(t, http.MethodPost, "/api/projects/1030002/favorite", nil, &body))
}

func TestIntegration_BookmarksSurviveRestart(t *testing.T) {
	dir := t.TempDir()

	first := setupTestEnvironment(t, dir)
	for _, path := range []string{"/1012345/0/5f3a9c", "/1020001/library-tower"} {
		status := first.call(t, http.MethodPost, "/api/parse-slideshow", map[string]string{"url": sourceURL + path}, nil)
		require.Equal(t, http.StatusOK, status, path)
	}
	first.call(t, http.MethodPost, "/api/projects/1020001/favorite", nil, nil)
	first.close()

	second := setupTestEnvironment(t, dir)

	n, err := second.searcher.(search.DebugStatser).DocCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var favorites []storage.Project
	require.Equal(t, http.StatusOK, second.call(t, http.MethodGet, "/api/projects/favorites", nil, &favorites))
	require.Len(t, favorites, 1)
	assert.Equal(t, "Gallery of Library Tower / Office Blau", favorites[0].Title)

	var results []search.Result
	require.Equal(t, http.StatusOK, second.call(t, http.MethodGet, fmt.Sprintf("/api/search?q=%s", "tower"), nil, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "1020001-ab12cd", results[0].Project.ShareID())
}
