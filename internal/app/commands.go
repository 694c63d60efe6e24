package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"reviewpulse/internal/domain"
	"reviewpulse/internal/extract"
)

// CollectService turns pages into stored reviews. It is the write path shared
// by the browser collector and the replay mode.
type CollectService struct {
	extractor *extract.Extractor
	repo      domain.ReviewRepository
	log       zerolog.Logger
}

func NewCollectService(ex *extract.Extractor, r domain.ReviewRepository, log zerolog.Logger) *CollectService {
	return &CollectService{extractor: ex, repo: r, log: log}
}

type CollectStats struct {
	Extracted  int
	Inserted   int
	Duplicates int
}

// Collect extracts every review card on the page and stores the new ones.
// Duplicates are counted, not failed: re-running a collect over a page that
// was already harvested is a normal operation. Storage errors abort the pass
// because they mean every later insert would fail too.
func (s *CollectService) Collect(ctx context.Context, page extract.Page, source, productURL string) (CollectStats, error) {
	var st CollectStats

	items := s.extractor.Extract(page)
	st.Extracted = len(items)

	for _, it := range items {
		rv := domain.Review{
			Source:     source,
			ProductURL: &productURL,
			Rating:     it.Rating,
			ReviewDate: it.ReviewDate,
			HashID:     domain.Fingerprint(source, productURL, it.Body, it.ReviewDate),
		}
		if it.Body != "" {
			b := it.Body
			rv.Body = &b
		}

		out, err := s.repo.InsertIfNew(ctx, rv)
		if err != nil {
			return st, fmt.Errorf("store review for %s: %w", productURL, err)
		}
		switch out {
		case domain.Inserted:
			st.Inserted++
		case domain.Duplicate:
			st.Duplicates++
		}
	}

	s.log.Info().
		Str("source", source).
		Str("product_url", productURL).
		Int("extracted", st.Extracted).
		Int("inserted", st.Inserted).
		Int("duplicates", st.Duplicates).
		Msg("collect pass done")
	return st, nil
}

// SubmitInput is a single review handed to us directly, e.g. over the API by
// a partner integration, rather than scraped from a page.
type SubmitInput struct {
	Source     string
	ProductURL string
	Body       string
	ReviewDate string
	Rating     *float64
	HashID     string
}

// Submit stores one externally supplied review. The fingerprint is computed
// server-side when the caller did not send one, so idempotent retries work
// without the caller knowing the hashing scheme.
func (s *CollectService) Submit(ctx context.Context, in SubmitInput) (domain.InsertOutcome, error) {
	if in.Source == "" {
		in.Source = "partner"
	}
	if in.HashID == "" {
		in.HashID = domain.Fingerprint(in.Source, in.ProductURL, in.Body, in.ReviewDate)
	}

	rv := domain.Review{
		Source:     in.Source,
		Rating:     in.Rating,
		ReviewDate: in.ReviewDate,
		HashID:     in.HashID,
	}
	if in.ProductURL != "" {
		u := in.ProductURL
		rv.ProductURL = &u
	}
	if in.Body != "" {
		b := in.Body
		rv.Body = &b
	}

	out, err := s.repo.InsertIfNew(ctx, rv)
	if err != nil {
		return out, err
	}
	s.log.Debug().Str("source", in.Source).Str("outcome", out.String()).Msg("review submitted")
	return out, nil
}
