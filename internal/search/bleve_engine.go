package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/storage"
)

// BleveEngine keeps a persistent full text index of bookmarked projects.
// It is also a slideshow.Recorder so every new view is indexed.
type BleveEngine struct {
	store storage.ProjectStore
	idx   bleve.Index
}

// NewBleveEngine creates or opens a Bleve index at indexPath and indexes current data.
func NewBleveEngine(store storage.ProjectStore, indexPath string) (*BleveEngine, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, err
	}

	idx, err := bleve.Open(indexPath)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(indexPath, buildIndexMapping())
	}
	if err != nil {
		return nil, err
	}

	be := &BleveEngine{store: store, idx: idx}
	if err := be.reindexAll(); err != nil {
		idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	articleID := bleve.NewTextFieldMapping()
	articleID.Analyzer = standard.Name
	articleID.Store = true

	stored := bleve.NewTextFieldMapping()
	stored.Index = false
	stored.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("article_id", articleID)
	dm.AddFieldMappingsAt("nonce", stored)
	dm.AddFieldMappingsAt("thumbnail", stored)

	im.DefaultMapping = dm
	return im
}

func projectDoc(meta slideshow.Metadata) map[string]any {
	return map[string]any{
		"title":      meta.Title,
		"article_id": meta.ArticleID,
		"nonce":      meta.Nonce,
		"thumbnail":  meta.Thumbnail,
	}
}

func (b *BleveEngine) reindexAll() error {
	projects, err := b.store.ListRecents(0, 0)
	if err != nil {
		return err
	}

	batch := b.idx.NewBatch()
	for _, p := range projects {
		if err := batch.Index(docID(p.ArticleID), projectDoc(p.Metadata())); err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

// RecordView indexes a freshly viewed slideshow.
func (b *BleveEngine) RecordView(ctx context.Context, meta slideshow.Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.idx.Index(docID(meta.ArticleID), projectDoc(meta))
}

func (b *BleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)

		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qa := bleve.NewPrefixQuery(tok)
		qa.SetField("article_id")
		qa.SetBoost(1.0)
		qs = append(qs, qa)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	if limit <= 0 {
		limit = 50
	}
	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"title", "article_id", "nonce", "thumbnail"}

	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		id := strings.TrimPrefix(h.ID, "project:")

		// the store has the current favorite flag and view time
		p, err := b.store.GetProject(id)
		if err != nil {
			p = &storage.Project{ArticleID: id}
			p.Title, _ = h.Fields["title"].(string)
			p.Nonce, _ = h.Fields["nonce"].(string)
			p.Thumbnail, _ = h.Fields["thumbnail"].(string)
		}

		r := &Result{Project: p, Score: h.Score}
		if t, ok := h.Fields["title"].(string); ok {
			r.Matches = []Match{{Field: "title", Text: truncate(t, 100), Weight: h.Score}}
		}
		out = append(out, r)
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *BleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *BleveEngine) Close() error {
	return b.idx.Close()
}

func docID(articleID string) string { return "project:" + articleID }
