package insight

import (
	"regexp"
	"strings"
)

var (
	noiseRe      = regexp.MustCompile(`[^가-힣A-Za-z0-9\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize strips noise characters and collapses whitespace so the same text
// feeds both tokenization and pain-point matching. Idempotent; "" in, "" out.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	t := strings.ReplaceAll(text, "\n", " ")
	t = noiseRe.ReplaceAllString(t, " ")
	t = whitespaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
