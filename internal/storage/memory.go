package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a ProjectStore that lives for the process only.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]Project
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]Project)}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Upsert(p *Project) (*Project, error) {
	if p == nil || p.ArticleID == "" {
		return nil, fmt.Errorf("upsert: article id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *p
	if stored.ViewedAt.IsZero() {
		stored.ViewedAt = time.Now()
	}
	if existing, ok := m.projects[stored.ArticleID]; ok {
		stored.IsFavorite = existing.IsFavorite
	}
	m.projects[stored.ArticleID] = stored

	out := stored
	return &out, nil
}

func (m *MemoryStore) ToggleFavorite(articleID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[articleID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, articleID)
	}
	p.IsFavorite = !p.IsFavorite
	m.projects[articleID] = p
	return p.IsFavorite, nil
}

func (m *MemoryStore) IsFavorite(articleID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.projects[articleID].IsFavorite, nil
}

func (m *MemoryStore) GetProject(articleID string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[articleID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, articleID)
	}
	return &p, nil
}

func (m *MemoryStore) ListRecents(limit, offset int) ([]*Project, error) {
	return page(m.sorted(nil), limit, offset), nil
}

func (m *MemoryStore) ListFavorites() ([]*Project, error) {
	return m.sorted(func(p *Project) bool { return p.IsFavorite }), nil
}

// sorted matches the bbolt index order: newest first, ties by id descending.
func (m *MemoryStore) sorted(keep func(*Project) bool) []*Project {
	m.mu.RLock()
	projects := make([]*Project, 0, len(m.projects))
	for _, p := range m.projects {
		p := p
		if keep == nil || keep(&p) {
			projects = append(projects, &p)
		}
	}
	m.mu.RUnlock()

	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].ViewedAt.Equal(projects[j].ViewedAt) {
			return projects[i].ViewedAt.After(projects[j].ViewedAt)
		}
		return projects[i].ArticleID > projects[j].ArticleID
	})
	return projects
}

func page(projects []*Project, limit, offset int) []*Project {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(projects) {
		return []*Project{}
	}
	projects = projects[offset:]
	if limit > 0 && len(projects) > limit {
		projects = projects[:limit]
	}
	return projects
}
