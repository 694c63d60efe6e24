package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Rating strategies, tried in fixed priority order; the first hit wins.
// A matched-but-malformed number is a strategy failure, not an error — control
// falls through to the next strategy.
type ratingStrategy func(card Node) (float64, bool)

var ratingStrategies = []ratingStrategy{
	ratingFromAriaLabel,
	ratingFromStarWidth,
	ratingFromText,
	ratingFromGlyphCount,
}

func resolveRating(card Node) *float64 {
	for _, try := range ratingStrategies {
		if v, ok := try(card); ok {
			return &v
		}
	}
	return nil
}

var numberRe = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// 1) accessible label carrying the localized score word, e.g. aria-label="4.5점".
func ratingFromAriaLabel(card Node) (float64, bool) {
	for _, el := range card.Find("[aria-label]") {
		label := el.Attr("aria-label")
		if !strings.Contains(label, "점") {
			continue
		}
		if m := numberRe.FindString(label); m != "" {
			if v, err := strconv.ParseFloat(m, 64); err == nil && v >= 0 && v <= 5 {
				return v, true
			}
		}
	}
	return 0, false
}

var widthRe = regexp.MustCompile(`width:\s*([0-9.]+)%`)

// 2) proportional star-bar width: 100% means 5.0, rounded to one decimal.
func ratingFromStarWidth(card Node) (float64, bool) {
	for _, el := range card.Find("[style*='width']") {
		m := widthRe.FindStringSubmatch(el.Attr("style"))
		if m == nil {
			continue
		}
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		v := math.Round(pct/20.0*10) / 10
		if v >= 0 && v <= 5 {
			return v, true
		}
	}
	return 0, false
}

var (
	scorePrefixRe = regexp.MustCompile(`평점\s*([0-9]+(?:\.[0-9]+)?)`)
	scoreSuffixRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*점`)
)

// 3) free-text "평점 4.5" / "4.5 점" patterns.
func ratingFromText(card Node) (float64, bool) {
	txt := card.Text()
	for _, re := range []*regexp.Regexp{scorePrefixRe, scoreSuffixRe} {
		if m := re.FindStringSubmatch(txt); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 0 && v <= 5 {
				return v, true
			}
		}
	}
	return 0, false
}

// 4) literal star glyphs; only 1..5 of them read as a rating.
func ratingFromGlyphCount(card Node) (float64, bool) {
	if n := strings.Count(card.Text(), "★"); n >= 1 && n <= 5 {
		return float64(n), true
	}
	return 0, false
}
