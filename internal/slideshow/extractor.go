package slideshow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const DefaultTitle = "ArchDaily Slideshow"

var (
	// first line whose trimmed content starts with the attribute name
	dataImagesLine  = regexp.MustCompile(`(?m)^[ \t\f\v\r]*data-images=[^\n]*`)
	dataImagesValue = regexp.MustCompile(`data-images="([^"]*)"`)
	titleSuffix     = regexp.MustCompile(` - \d+$`)
)

// Extractor reads the image list and metadata off a slideshow page.
type Extractor struct {
	fetcher PageFetcher
}

func NewExtractor(fetcher PageFetcher) *Extractor {
	return &Extractor{fetcher: fetcher}
}

func (e *Extractor) Extract(ctx context.Context, target Target) (*Slideshow, error) {
	body, err := e.fetcher.FetchPage(ctx, target.URL)
	if err != nil {
		return nil, err
	}

	images, thumbnail, err := ExtractImages(body)
	if err != nil {
		return nil, err
	}

	return &Slideshow{
		Images: images,
		Metadata: Metadata{
			ArticleID: target.ArticleID,
			Nonce:     target.Nonce,
			Title:     ExtractTitle(body),
			Thumbnail: thumbnail,
		},
		URL: target.URL,
	}, nil
}

// ExtractImages decodes the data-images payload of a slideshow page and
// returns the images in source order with the thumbnail URL.
func ExtractImages(body []byte) ([]SlideImage, string, error) {
	line := dataImagesLine.Find(body)
	if line == nil {
		return nil, "", ErrDataAttributeNotFound
	}

	m := dataImagesValue.FindSubmatch(line)
	if m == nil || len(m[1]) == 0 {
		return nil, "", ErrAttributeValue
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(DecodeEntities(string(m[1]))), &raw); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if raw == nil {
		return nil, "", fmt.Errorf("%w: payload is not an array", ErrMalformedPayload)
	}

	images := make([]SlideImage, 0, len(raw))
	for _, item := range raw {
		images = append(images, SlideImage{
			URLLarge:  stringField(item, "url_large"),
			URLMedium: stringField(item, "url_medium"),
			ImageAlt:  stringField(item, "image_alt"),
			Caption:   stringField(item, "caption"),
		})
	}

	var thumbnail string
	if len(raw) > 0 {
		thumbnail = stringField(raw[0], "url_medium")
		if thumbnail == "" {
			thumbnail = stringField(raw[0], "url_slideshow")
		}
	}

	return images, thumbnail, nil
}

// ExtractTitle returns the page title without the trailing image number,
// or DefaultTitle when the page has none.
func ExtractTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return DefaultTitle
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSpace(titleSuffix.ReplaceAllString(title, ""))
	if title == "" {
		return DefaultTitle
	}
	return title
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
