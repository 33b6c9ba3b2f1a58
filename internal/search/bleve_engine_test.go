//go:build bleve

package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/storage"
)

func TestBleveEngineIndexesAndSearches(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(filepath.Join(dir, "test.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	now := time.Now()
	_, err = store.Upsert(&storage.Project{ArticleID: "1012345", Nonce: "a1", Title: "Casa Azul / Studio Norte", ViewedAt: now})
	require.NoError(t, err)
	_, err = store.Upsert(&storage.Project{ArticleID: "1020001", Nonce: "b2", Title: "Library Tower / Office Blau", ViewedAt: now})
	require.NoError(t, err)

	idxPath := filepath.Join(dir, "index.bleve")
	eng, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	n, err := eng.DocCount()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	res, err := eng.Search("casa", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "1012345", res[0].Project.ArticleID)

	res, err = eng.Search("libr", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)

	res, err = eng.Search("10200", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "Library Tower / Office Blau", res[0].Project.Title)

	fi, err := os.Stat(idxPath)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestBleveEngineRecordView(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewMemoryStore()

	eng, err := NewBleveEngine(store, filepath.Join(dir, "index.bleve"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	meta := slideshow.Metadata{ArticleID: "77", Nonce: "ff", Title: "Pavilion of Light"}
	require.NoError(t, eng.RecordView(context.Background(), meta))

	// not in the store, so the hit is rebuilt from stored fields
	res, err := eng.Search("pavilion", 5)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "ff", res[0].Project.Nonce)
	require.Equal(t, "Pavilion of Light", res[0].Project.Title)
}

func TestBleveEngineReopen(t *testing.T) {
	dir := t.TempDir()
	idxPath := filepath.Join(dir, "index.bleve")
	store := storage.NewMemoryStore()

	eng, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	require.NoError(t, eng.RecordView(context.Background(), slideshow.Metadata{ArticleID: "9", Nonce: "aa", Title: "Harbor Museum"}))
	require.NoError(t, eng.Close())

	reopened, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	res, err := reopened.Search("harbor", 5)
	require.NoError(t, err)
	require.Len(t, res, 1)
}
