package slideshow

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const samplePayload = `[{"url_large":"http://x/a.jpg","url_medium":"http://x/b.jpg","image_alt":"Alt","caption":"Cap"},` +
	`{"url_large":"http://x/c.jpg","url_medium":"http://x/d.jpg","image_alt":"Second","caption":"<p>Café &amp; bar</p>"}]`

// slideshowPage renders a page the way the source site does: the image
// list sits on its own line as an entity-encoded attribute.
func slideshowPage(title, payload string) string {
	titleTag := ""
	if title != "" {
		titleTag = "<title>" + title + "</title>"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>%s</head>
<body>
  <div id="gallery-thumbs"
    data-images="%s"
    data-current="0">
  </div>
</body>
</html>`, titleTag, html.EscapeString(payload))
}

func articlePage(nonce string) string {
	return `<html><head><style>
#newsroom-picture-att-id-` + nonce + ` { display: block; }
</style><title>Casa Azul / Studio</title></head><body></body></html>`
}

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) FetchPage(_ context.Context, rawURL string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	if body, ok := f.pages[rawURL]; ok {
		return []byte(body), nil
	}
	return nil, fmt.Errorf("%w: HTTP 404 for %s", ErrFetch, rawURL)
}

type recordingRecorder struct {
	mu    sync.Mutex
	seen  []Metadata
	fails error
}

func (r *recordingRecorder) RecordView(_ context.Context, meta Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, meta)
	return r.fails
}

// newSourceServer serves one article page and its slideshow page.
func newSourceServer(t *testing.T, nonce string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/1012345/casa-azul", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articlePage(nonce)))
	})
	mux.HandleFunc("/1012345/0/"+nonce, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(slideshowPage("Gallery of Casa Azul / Studio - 3", samplePayload)))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
