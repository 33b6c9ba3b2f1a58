package storage

import (
	"errors"
	"fmt"

	"github.com/pders01/slyde/internal/config"
	"github.com/pders01/slyde/internal/validation"
)

var ErrNotFound = errors.New("project not found")

// ProjectStore keeps one record per article. Recents and favorites are
// both ordered by ViewedAt, newest first.
type ProjectStore interface {
	// Upsert saves p, keeping the stored favorite flag, and returns the record as stored.
	Upsert(p *Project) (*Project, error)
	// ToggleFavorite flips the flag and returns its new value.
	ToggleFavorite(articleID string) (bool, error)
	IsFavorite(articleID string) (bool, error)
	GetProject(articleID string) (*Project, error)
	// ListRecents skips offset records and returns at most limit. limit <= 0 returns the rest.
	ListRecents(limit, offset int) ([]*Project, error)
	ListFavorites() ([]*Project, error)
	Close() error
}

// Open returns the bbolt store at cfg.Path, or an in-memory store when the
// path is empty.
func Open(cfg config.DatabaseConfig) (ProjectStore, error) {
	if cfg.Path == "" {
		return NewMemoryStore(), nil
	}

	path, err := validation.NewPermissivePathHandler().DBPath(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}
	return NewStore(path, cfg.Timeout)
}
