package extract

import (
	"strings"

	"reviewpulse/internal/domain"
)

// Class-hint substrings that mark metadata, not review prose.
var bodyDenylist = []string{
	"seller", "option", "writer", "author", "nickname",
	"image", "photo", "thumb", "btn", "badge", "star", "rating",
	"score", "reg-date", "date", "meta", "name", "title",
}

// selectBody picks the single passage that best represents the review body:
// the longest candidate text inside the 8..600 character window, skipping
// metadata-flagged, accessibility-hidden, and display:none nodes. When no
// candidate qualifies it falls back to the longest single line of the card's
// flattened text. Ties keep the first candidate in traversal order.
func selectBody(card Node) string {
	best := ""
	for _, n := range card.Find("p, div, span") {
		if hidden := strings.ToLower(n.Attr("aria-hidden")); hidden == "true" || hidden == "1" {
			continue
		}
		if strings.Contains(strings.ToLower(n.Attr("style")), "display:none") {
			continue
		}
		cls := strings.ToLower(n.Attr("class"))
		if containsAny(cls, bodyDenylist) {
			continue
		}
		txt := strings.TrimSpace(n.Text())
		if inBodyWindow(txt) && len([]rune(txt)) > len([]rune(best)) {
			best = txt
		}
	}
	if best != "" {
		return best
	}

	for _, line := range strings.Split(card.Text(), "\n") {
		line = strings.TrimSpace(line)
		if inBodyWindow(line) && len([]rune(line)) > len([]rune(best)) {
			best = line
		}
	}
	return best
}

func inBodyWindow(s string) bool {
	n := len([]rune(s))
	return n >= domain.MinBodyRunes && n <= domain.MaxBodyRunes
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
