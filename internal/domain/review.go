package domain

import "time"

// Review is the persisted entity. Rows are created via insert-if-new on the
// fingerprint and never updated or deleted afterwards.
type Review struct {
	ID         int64
	Source     string
	ProductURL *string
	Rating     *float64
	Body       *string
	ReviewDate string // raw date string: "2024-03-07" or "3일 전" or ""
	HashID     string // content fingerprint, unique
	CreatedAt  time.Time
}

// RawReviewItem is what card extraction produces before hashing/persistence.
type RawReviewItem struct {
	Rating     *float64
	Body       string
	ReviewDate string
}

// Accepted reports whether an extracted item is worth keeping: a real body
// (>= 8 chars) or at least a rating. Anything else is card noise.
func (it RawReviewItem) Accepted() bool {
	return len([]rune(it.Body)) >= MinBodyRunes || it.Rating != nil
}

// Body candidates outside this window are rejected as non-review noise.
const (
	MinBodyRunes = 8
	MaxBodyRunes = 600
)

// TermCount is one row of a frequency table.
type TermCount struct {
	Term string `json:"term"`
	Freq int    `json:"freq"`
}

// PainPoint is a complaint category with its document-level match count.
type PainPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// InsightResult is computed on demand and never persisted.
type InsightResult struct {
	Total      int         `json:"total"`
	TopTerms   []TermCount `json:"top_terms"`
	TopBigrams []TermCount `json:"top_bigrams"`
	PainPoints []PainPoint `json:"pain_points"`
}
