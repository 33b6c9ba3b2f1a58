package slideshow

import (
	"context"
	"fmt"
	"strings"

	"github.com/pders01/slyde/internal/config"
	"github.com/pders01/slyde/internal/debuglog"
	"github.com/pders01/slyde/internal/validation"
)

// Service runs the resolve and extract pipeline and tells recorders about
// every slideshow it returns.
type Service struct {
	validator *validation.SourceURLValidator
	resolver  *Resolver
	extractor *Extractor
	baseURL   string
	recorders []Recorder
}

func NewService(cfg config.SourceConfig, fetcher PageFetcher, recorders ...Recorder) *Service {
	validator := validation.NewSourceURLValidator(cfg.AllowedHosts...)
	if cfg.AllowPrivate {
		validator = validation.NewPermissiveSourceURLValidator(cfg.AllowedHosts...)
	}

	resolver := NewResolver(fetcher)
	resolver.keepScheme = cfg.AllowPrivate

	return &Service{
		validator: validator,
		resolver:  resolver,
		extractor: NewExtractor(fetcher),
		baseURL:   cfg.BaseURL,
		recorders: recorders,
	}
}

// AddRecorder registers r for subsequent extractions.
func (s *Service) AddRecorder(r Recorder) {
	s.recorders = append(s.recorders, r)
}

// BaseURL is the site used to build slideshow URLs from share ids.
func (s *Service) BaseURL() string {
	if s.baseURL == "" {
		return config.DefaultBaseURL
	}
	return s.baseURL
}

func (s *Service) Parse(ctx context.Context, rawURL string) (*Slideshow, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrMissingInput
	}

	normalized, err := s.validator.ValidateAndNormalize(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingInput, err)
	}

	target, err := s.resolver.Resolve(ctx, normalized)
	if err != nil {
		return nil, err
	}

	show, err := s.extractor.Extract(ctx, target)
	if err != nil {
		return nil, err
	}

	debuglog.WithFields(map[string]interface{}{
		"article": show.Metadata.ArticleID,
		"nonce":   show.Metadata.Nonce,
		"images":  len(show.Images),
	}).Infof("extracted slideshow %q", show.Metadata.Title)

	s.record(ctx, show.Metadata)
	return show, nil
}

// ParseShareID loads the slideshow named by "<articleId>-<nonce>".
func (s *Service) ParseShareID(ctx context.Context, id string) (*Slideshow, error) {
	articleID, nonce, err := ParseShareID(id)
	if err != nil {
		return nil, err
	}
	return s.Parse(ctx, BuildSlideshowURL(s.BaseURL(), articleID, nonce))
}

func (s *Service) record(ctx context.Context, meta Metadata) {
	for _, r := range s.recorders {
		if err := r.RecordView(ctx, meta); err != nil {
			debuglog.Warnf("recording view of %s: %v", meta.ArticleID, err)
		}
	}
}
