package storage

import (
	"time"

	"github.com/pders01/slyde/internal/slideshow"
)

// Project is a bookmarked slideshow, one per article.
type Project struct {
	ArticleID  string    `json:"articleId"`
	Nonce      string    `json:"nonce"`
	Title      string    `json:"title"`
	Thumbnail  string    `json:"thumbnail"`
	ViewedAt   time.Time `json:"viewedAt"`
	IsFavorite bool      `json:"isFavorite"`
}

func ProjectFromMetadata(meta slideshow.Metadata, viewedAt time.Time) *Project {
	return &Project{
		ArticleID: meta.ArticleID,
		Nonce:     meta.Nonce,
		Title:     meta.Title,
		Thumbnail: meta.Thumbnail,
		ViewedAt:  viewedAt,
	}
}

// Metadata converts the record back into slideshow metadata.
func (p *Project) Metadata() slideshow.Metadata {
	return slideshow.Metadata{
		ArticleID: p.ArticleID,
		Nonce:     p.Nonce,
		Title:     p.Title,
		Thumbnail: p.Thumbnail,
	}
}

// ShareID is the "<articleId>-<nonce>" link form.
func (p *Project) ShareID() string {
	return slideshow.ShareID(p.Metadata())
}
