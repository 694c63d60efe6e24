package extract

import (
	"strings"

	"github.com/rs/zerolog"

	"reviewpulse/internal/domain"
)

// Ordered container probes: the site's own review list class first, then
// increasingly generic region hints. All probes run; matches are unioned.
var containerSelectors = []string{
	"[class*='sdp-review__article__list']",
	"section[id*='review']",
	"div[id*='review']",
	"[data-component-id*='review']",
}

// Ordered item probes inside a container, from the exact card class down to
// bare structural elements as a last resort.
var itemSelectors = []string{
	".sdp-review__article__list__review",
	"li[class*='review__item']",
	"article[class*='review']",
	"div[class*='review__item']",
	"li", "article", "div",
}

// Collapsed-body affordances worth clicking before text selection.
var expandLabels = []string{"더보기", "펼치기"}

const (
	minCardTextRunes   = 5
	maxExpandsPerProbe = 20
)

type Extractor struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract walks the page and returns the review items it can resolve.
// A page without a review section yields an empty slice — that is a normal
// outcome, not an error. A failure on one card skips that card only.
func (e *Extractor) Extract(page Page) []domain.RawReviewItem {
	containers := e.probeContainers(page)
	if len(containers) == 0 {
		e.log.Debug().Msg("no review containers on page")
		return nil
	}

	cards := e.probeItems(containers)
	e.log.Debug().Int("cards", len(cards)).Msg("review cards located")
	if len(cards) == 0 {
		return nil
	}

	e.expandAffordances(page)

	items := make([]domain.RawReviewItem, 0, len(cards))
	for _, card := range cards {
		if item, ok := e.parseCard(card); ok {
			items = append(items, item)
		}
	}
	e.log.Debug().Int("extracted", len(items)).Msg("cards parsed")
	return items
}

func (e *Extractor) probeContainers(page Page) []Node {
	var out []Node
	seen := map[string]struct{}{}
	for _, sel := range containerSelectors {
		found := page.Find(sel)
		e.log.Debug().Str("selector", sel).Int("matches", len(found)).Msg("container probe")
		out = appendUnique(out, found, seen)
	}
	return out
}

func (e *Extractor) probeItems(containers []Node) []Node {
	var out []Node
	seen := map[string]struct{}{}
	for _, c := range containers {
		for _, sel := range itemSelectors {
			out = appendUnique(out, c.Find(sel), seen)
		}
	}

	// near-empty nodes are layout noise, not cards
	kept := out[:0]
	for _, n := range out {
		if len([]rune(strings.TrimSpace(n.Text()))) >= minCardTextRunes {
			kept = append(kept, n)
		}
	}
	return kept
}

// expandAffordances clicks "show more"-style controls so later text selection
// sees fully expanded bodies. Best-effort and idempotent: every failure is
// ignored, re-clicking an expanded card changes nothing.
func (e *Extractor) expandAffordances(page Page) {
	for _, sel := range []string{"button", "a"} {
		clicked := 0
		for _, n := range page.Find(sel) {
			if clicked >= maxExpandsPerProbe {
				break
			}
			txt := n.Text()
			if !containsAny(txt, expandLabels) {
				continue
			}
			if err := n.Click(); err != nil {
				e.log.Debug().Err(err).Msg("expand click ignored")
			}
			clicked++
		}
	}
}

// parseCard resolves one card's fields. Panics from a hostile DOM shape are
// contained here so one bad card never aborts the pass.
func (e *Extractor) parseCard(card Node) (item domain.RawReviewItem, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Debug().Interface("panic", r).Msg("card skipped")
			ok = false
		}
	}()
	item.Rating = resolveRating(card)
	item.Body = selectBody(card)
	item.ReviewDate = resolveDate(card)
	return item, item.Accepted()
}

func appendUnique(dst []Node, src []Node, seen map[string]struct{}) []Node {
	for _, n := range src {
		k := n.Key()
		if k != "" {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		dst = append(dst, n)
	}
	return dst
}
