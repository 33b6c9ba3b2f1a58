package slideshow

import (
	"fmt"
	"strings"
)

// ShareID is the compact "<articleId>-<nonce>" form used in ?s= links.
func ShareID(meta Metadata) string {
	return meta.ArticleID + "-" + meta.Nonce
}

// ParseShareID splits a share id on its last hyphen; nonces are hex and
// never contain one.
func ParseShareID(id string) (articleID, nonce string, err error) {
	id = strings.TrimSpace(id)
	i := strings.LastIndexByte(id, '-')
	if i <= 0 || i == len(id)-1 {
		return "", "", fmt.Errorf("%w: malformed share id %q", ErrMissingInput, id)
	}
	return id[:i], id[i+1:], nil
}
