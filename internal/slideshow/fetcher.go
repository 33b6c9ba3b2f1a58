package slideshow

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pders01/slyde/internal/config"
	"github.com/pders01/slyde/internal/debuglog"
	"github.com/pders01/slyde/internal/validation"
)

const (
	DefaultTimeout          = 30 * time.Second
	DefaultMaxResponseBytes = 16 * 1024 * 1024
	defaultUserAgent        = "Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0"
)

// Fetcher downloads article and slideshow pages.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

func NewFetcher(cfg config.SourceConfig) *Fetcher {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxBytes := cfg.MaxResponseBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxResponseBytes
	}

	dialer := &net.Dialer{Timeout: timeout}

	var client *http.Client
	if cfg.BrowserTLS {
		client = newBrowserClient(dialer, timeout, cfg.AllowPrivate)
	} else {
		client = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         guardedDialContext(dialer, cfg.AllowPrivate),
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 4,
			},
		}
	}

	return &Fetcher{client: client, userAgent: userAgent, maxBytes: maxBytes}
}

// FetchPage GETs rawURL with browser-like headers. Any network failure,
// timeout or non-2xx status is reported as ErrFetch.
func (f *Fetcher) FetchPage(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrFetch, resp.StatusCode, rawURL)
	}

	body, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrFetch, err)
	}

	debuglog.WithFields(map[string]interface{}{
		"url":     rawURL,
		"bytes":   len(body),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debugf("fetched page")

	return body, nil
}

// readLimited reads at most limit bytes and fails if the body is larger.
// A limit below zero disables the check.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit < 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}

// guardedDialContext refuses to connect to private addresses after DNS
// resolution unless allowPrivate is set.
func guardedDialContext(dialer *net.Dialer, allowPrivate bool) func(context.Context, string, string) (net.Conn, error) {
	if allowPrivate {
		return dialer.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		if err != nil {
			return nil, err
		}

		for _, ip := range addrs {
			if ip.IsUnspecified() || validation.IsPrivateAddr(ip) {
				continue
			}
			// dial the checked address so a second lookup can't swap it
			return dialer.DialContext(ctx, network, net.JoinHostPort(ip.Unmap().String(), port))
		}
		return nil, fmt.Errorf("blocked connection to private address for %s", host)
	}
}
