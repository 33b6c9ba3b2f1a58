package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/slyde/internal/storage"
)

// Engine scores every bookmarked project against the query. Bookmarks are
// few enough that no index is needed.
type Engine struct {
	store storage.ProjectStore
}

func NewEngine(store storage.ProjectStore) *Engine {
	return &Engine{store: store}
}

func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	projects, err := e.store.ListRecents(0, 0)
	if err != nil {
		return nil, err
	}

	results := []*Result{}
	for _, p := range projects {
		if r := e.scoreProject(p, terms); r != nil {
			results = append(results, r)
		}
	}

	// stable keeps recency order among equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (e *Engine) scoreProject(p *storage.Project, terms []string) *Result {
	var matches []Match
	var total float64

	if s := scoreField(p.Title, terms, 3.0); s > 0 {
		matches = append(matches, Match{Field: "title", Text: truncate(p.Title, 100), Weight: s})
		total += s
	}

	if s := scoreField(p.ArticleID, terms, 1.0); s > 0 {
		matches = append(matches, Match{Field: "articleId", Text: p.ArticleID, Weight: s})
		total += s
	}

	if total == 0 {
		return nil
	}

	// favorites rank slightly higher
	if p.IsFavorite {
		total *= 1.1
	}

	return &Result{Project: p, Score: total, Matches: matches}
}

// scoreField calculates relevance score for a field
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matched := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matched++
		}

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matched++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matched++
			case strings.Contains(word, term):
				score += 0.5
				matched++
			}
		}
	}

	if len(terms) > 1 && matched > 1 {
		score *= 1.0 + float64(matched)/float64(len(terms))
	}

	tf := float64(matched) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize lowercases text and splits it into letter/digit runs of two or more runes.
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 1 {
			terms = append(terms, current.String())
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return terms
}

// truncate limits text length with ellipsis
func truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-1]) + "…"
}
