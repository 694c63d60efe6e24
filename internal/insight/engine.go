// Package insight derives lightweight textual insights — top-frequency
// unigrams/bigrams and pain-point category counts — from a bounded batch of
// stored review bodies.
package insight

import (
	"regexp"
	"sort"
	"strings"

	"reviewpulse/internal/domain"
)

// tokens are maximal runs of >= 2 Hangul or Latin letters; digits and
// one-letter fragments carry no signal in review text.
var tokenRe = regexp.MustCompile(`[가-힣A-Za-z]{2,}`)

// Config carries the vocabulary tables. Immutable after construction, so
// independent Engine instances (tests, per-tenant taxonomies) never interfere.
type Config struct {
	Stopwords      []string
	PainCategories []PainCategory
}

// Engine computes insights over already-fetched bodies. It holds no mutable
// state after construction and is safe for concurrent Compute calls.
type Engine struct {
	stop  map[string]struct{}
	pains []PainCategory
}

// New builds an Engine from cfg; zero-value fields fall back to the defaults.
func New(cfg Config) *Engine {
	words := cfg.Stopwords
	if words == nil {
		words = DefaultStopwords()
	}
	pains := cfg.PainCategories
	if pains == nil {
		pains = DefaultPainCategories()
	}
	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		stop[w] = struct{}{}
	}
	return &Engine{stop: stop, pains: pains}
}

// Compute returns the top-topK unigrams and bigrams by total frequency, each
// gated on appearing in at least minDF distinct documents, plus document-level
// pain-point counts. Empty input yields a zeroed result.
func (e *Engine) Compute(bodies []string, topK, minDF int) domain.InsightResult {
	out := domain.InsightResult{
		TopTerms:   []domain.TermCount{},
		TopBigrams: []domain.TermCount{},
		PainPoints: []domain.PainPoint{},
	}
	if len(bodies) == 0 {
		return out
	}
	if topK <= 0 {
		topK = 15
	}
	if minDF < 1 {
		minDF = 1
	}
	out.Total = len(bodies)

	uniFreq := map[string]int{}
	uniDocs := map[string]int{}
	biFreq := map[string]int{}
	biDocs := map[string]int{}
	painDocs := make([]int, len(e.pains))

	for _, body := range bodies {
		norm := Normalize(body)
		toks := e.tokenize(norm)

		seenUni := map[string]struct{}{}
		for _, t := range toks {
			uniFreq[t]++
			seenUni[t] = struct{}{}
		}
		for t := range seenUni {
			uniDocs[t]++
		}

		// bigrams over adjacent kept tokens (stopwords already removed)
		seenBi := map[string]struct{}{}
		for i := 0; i+1 < len(toks); i++ {
			b := toks[i] + " " + toks[i+1]
			biFreq[b]++
			seenBi[b] = struct{}{}
		}
		for b := range seenBi {
			biDocs[b]++
		}

		// substring match on normalized text so compound words still count;
		// a document counts toward a category at most once.
		for ci, cat := range e.pains {
			for _, kw := range cat.Keywords {
				if strings.Contains(norm, kw) {
					painDocs[ci]++
					break
				}
			}
		}
	}

	out.TopTerms = topTerms(uniFreq, uniDocs, topK, minDF)
	out.TopBigrams = topTerms(biFreq, biDocs, topK, minDF)

	for ci, cat := range e.pains {
		if painDocs[ci] > 0 {
			out.PainPoints = append(out.PainPoints, domain.PainPoint{Label: cat.Label, Count: painDocs[ci]})
		}
	}
	sort.SliceStable(out.PainPoints, func(i, j int) bool {
		return out.PainPoints[i].Count > out.PainPoints[j].Count
	})

	return out
}

func (e *Engine) tokenize(normalized string) []string {
	raw := tokenRe.FindAllString(normalized, -1)
	toks := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(t)
		if _, skip := e.stop[t]; skip {
			continue
		}
		toks = append(toks, t)
	}
	return toks
}

// topTerms selects terms with document support >= minDF, ordered by total
// frequency descending, ties broken by term for run-to-run determinism.
func topTerms(freq, docs map[string]int, topK, minDF int) []domain.TermCount {
	eligible := make([]domain.TermCount, 0, len(freq))
	for term, f := range freq {
		if docs[term] >= minDF {
			eligible = append(eligible, domain.TermCount{Term: term, Freq: f})
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].Freq != eligible[j].Freq {
			return eligible[i].Freq > eligible[j].Freq
		}
		return eligible[i].Term < eligible[j].Term
	})
	if len(eligible) > topK {
		eligible = eligible[:topK]
	}
	return eligible
}
