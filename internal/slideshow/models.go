package slideshow

import "context"

// SlideImage is one normalized entry of a slideshow. Fields absent from the
// source payload are empty strings.
type SlideImage struct {
	URLLarge  string `json:"url_large"`
	URLMedium string `json:"url_medium"`
	ImageAlt  string `json:"image_alt"`
	Caption   string `json:"caption"`
}

type Metadata struct {
	ArticleID string `json:"articleId"`
	Nonce     string `json:"nonce"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// Slideshow is the result of one extraction.
type Slideshow struct {
	Images   []SlideImage `json:"images"`
	Metadata Metadata     `json:"metadata"`

	// URL is the slideshow page the images were read from.
	URL string `json:"-"`
}

// Target is a resolved slideshow page.
type Target struct {
	URL       string
	ArticleID string
	Nonce     string
}

// PageFetcher retrieves raw page markup.
type PageFetcher interface {
	FetchPage(ctx context.Context, rawURL string) ([]byte, error)
}

// Recorder is notified after every successful extraction.
type Recorder interface {
	RecordView(ctx context.Context, meta Metadata) error
}
