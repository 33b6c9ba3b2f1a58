package tui

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/slyde/internal/debuglog"
	"github.com/pders01/slyde/internal/storage"
)

// brokenFavoriteStore fails every favorite lookup.
type brokenFavoriteStore struct {
	storage.ProjectStore
}

func (brokenFavoriteStore) IsFavorite(string) (bool, error) {
	return false, errors.New("database not open")
}

func TestLoadSlideshow_FavoriteLookupFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	debuglog.SetupWriter(debuglog.LevelWarn, &buf)
	t.Cleanup(func() { debuglog.SetupWriter(debuglog.LevelOff, io.Discard) })

	env := newTestEnv(t)
	env.app.store = brokenFavoriteStore{ProjectStore: env.store}

	env.openSlideshow(t, testSlideshowURL)
	a := env.app
	require.Equal(t, ViewSlideshow, a.view, "a failed favorite lookup must not block the slideshow")
	assert.False(t, a.favorite)
	assert.Contains(t, buf.String(), "checking favorite 1012345")
	assert.Contains(t, buf.String(), "database not open")
}

func TestIsFavorite(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.store.Upsert(&storage.Project{ArticleID: "1012345", Nonce: "5f3a9c", Title: "Casa Azul"})
	require.NoError(t, err)
	_, err = env.store.ToggleFavorite("1012345")
	require.NoError(t, err)

	assert.True(t, env.app.isFavorite("1012345"))
	assert.False(t, env.app.isFavorite("999"))
}
