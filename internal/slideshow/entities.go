package slideshow

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	entityPattern = regexp.MustCompile(`&[a-z]+;|&#\d+;`)

	namedEntities = map[string]string{
		"&quot;": `"`,
		"&amp;":  "&",
		"&lt;":   "<",
		"&gt;":   ">",
		"&#39;":  "'",
		"&apos;": "'",
	}
)

// DecodeEntities replaces the named entities the source site emits and any
// decimal numeric entity. Other named entities and numeric entities that are
// not valid code points are left as they are.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityPattern.ReplaceAllStringFunc(s, decodeEntity)
}

func decodeEntity(tok string) string {
	if v, ok := namedEntities[tok]; ok {
		return v
	}
	if !strings.HasPrefix(tok, "&#") {
		return tok
	}

	n, err := strconv.ParseInt(tok[2:len(tok)-1], 10, 32)
	if err != nil || n <= 0 || !utf8.ValidRune(rune(n)) {
		return tok
	}
	return string(rune(n))
}
