package search

import (
	"github.com/pders01/slyde/internal/debuglog"
	"github.com/pders01/slyde/internal/storage"
)

// Result is one bookmarked project matching a query.
type Result struct {
	Project *storage.Project `json:"project"`
	Score   float64          `json:"score"`
	Matches []Match          `json:"matches,omitempty"`
}

// Match represents where text was found
type Match struct {
	Field  string  `json:"field"`
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

// Searcher defines the minimal search API used by the TUI and the HTTP API.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}

// New opens the bleve index at indexPath, falling back to the scanning
// engine when no path is configured or the index can't be opened.
func New(store storage.ProjectStore, indexPath string) Searcher {
	if indexPath == "" {
		return NewEngine(store)
	}

	eng, err := NewBleveEngine(store, indexPath)
	if err != nil {
		debuglog.Warnf("search index unavailable at %s, using scan search: %v", indexPath, err)
		return NewEngine(store)
	}
	return eng
}
