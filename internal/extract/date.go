package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Structured date-ish descendants, most specific first.
var dateSelectors = []string{
	"time",
	"[class*='date']",
	"[class*='reg']",
}

var (
	absoluteDateRe = regexp.MustCompile(`(20\d{2})[.\-](\d{1,2})[.\-](\d{1,2})`)
	relativeDateRe = regexp.MustCompile(`(\d+)\s*(일|개월|년)\s*전`)
)

// resolveDate returns the card's display date: the first structured date
// descendant's text, else an absolute YYYY-MM-DD reformatted from free text,
// else the relative "<n><unit> 전" phrase, else "".
func resolveDate(card Node) string {
	for _, sel := range dateSelectors {
		for _, el := range card.Find(sel) {
			if txt := strings.TrimSpace(el.Text()); txt != "" {
				return txt
			}
		}
	}

	txt := card.Text()
	if m := absoluteDateRe.FindStringSubmatch(txt); m != nil {
		month, merr := strconv.Atoi(m[2])
		day, derr := strconv.Atoi(m[3])
		if merr == nil && derr == nil {
			return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
		}
	}
	if m := relativeDateRe.FindStringSubmatch(txt); m != nil {
		return fmt.Sprintf("%s%s 전", m[1], m[2])
	}
	return ""
}
