package slideshow

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/pders01/slyde/internal/config"
)

var noncePattern = regexp.MustCompile(`#newsroom-picture-att-id-([0-9a-fA-F]+)`)

// Resolver turns a user supplied article or slideshow URL into a Target.
type Resolver struct {
	fetcher PageFetcher
	// keepScheme reuses the input scheme for canonical URLs instead of https.
	keepScheme bool
}

func NewResolver(fetcher PageFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve classifies rawURL by its path segments. Three or more segments
// name a slideshow directly. Two segments name an article whose page is
// fetched to find the slideshow nonce. Anything shorter is rejected.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (Target, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %w", ErrMissingInput, err)
	}

	segments := pathSegments(u.Path)
	switch {
	case len(segments) >= 3:
		return Target{
			URL:       rawURL,
			ArticleID: segments[0],
			Nonce:     nonceFromSegment(segments[len(segments)-1]),
		}, nil

	case len(segments) == 2:
		body, err := r.fetcher.FetchPage(ctx, rawURL)
		if err != nil {
			return Target{}, err
		}

		m := noncePattern.FindSubmatch(body)
		if m == nil {
			return Target{}, fmt.Errorf("%w: %s", ErrNonceNotFound, rawURL)
		}

		articleID, nonce := segments[0], string(m[1])
		scheme := "https"
		if r.keepScheme && u.Scheme != "" {
			scheme = u.Scheme
		}
		origin := scheme + "://" + u.Host
		return Target{
			URL:       BuildSlideshowURL(origin, articleID, nonce),
			ArticleID: articleID,
			Nonce:     nonce,
		}, nil

	default:
		return Target{}, fmt.Errorf("%w: %s does not name an article", ErrMissingInput, rawURL)
	}
}

// BuildSlideshowURL returns <baseURL>/<articleID>/0/<nonce>.
func BuildSlideshowURL(baseURL, articleID, nonce string) string {
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(articleID) + "/0/" + url.PathEscape(nonce)
}

// ParseSlideshowURL derives the article id and nonce from a direct slideshow URL.
func ParseSlideshowURL(rawURL string) (articleID, nonce string, err error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrMissingInput, err)
	}

	segments := pathSegments(u.Path)
	if len(segments) < 3 {
		return "", "", fmt.Errorf("%w: %s is not a slideshow URL", ErrMissingInput, rawURL)
	}
	return segments[0], nonceFromSegment(segments[len(segments)-1]), nil
}

func pathSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func nonceFromSegment(segment string) string {
	if i := strings.IndexByte(segment, '-'); i >= 0 {
		return segment[:i]
	}
	return segment
}
