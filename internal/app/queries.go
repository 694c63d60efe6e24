package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reviewpulse/internal/domain"
	"reviewpulse/internal/insight"
)

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	engine   *insight.Engine
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, e *insight.Engine, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, engine: e, cacheTTL: ttl}
}

func (s *QueryService) ListReviews(ctx context.Context, q domain.ReviewsQuery) ([]domain.Review, error) {
	key := fmt.Sprintf("reviews:%d:%s", q.Limit, q.Source)
	var out []domain.Review
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.repo.ListReviews(ctx, q)
	if err != nil {
		return nil, err
	}

	// copy before caching so a caller mutating the result cannot poison the
	// cached value
	cp := make([]domain.Review, len(rs))
	copy(cp, rs)

	if b, _ := json.Marshal(cp); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	}
	return cp, nil
}

// Insights computes term and pain-point statistics over the most recent
// review bodies. Results are cached per parameter tuple because the compute
// re-tokenizes every body on each call.
func (s *QueryService) Insights(ctx context.Context, limit int, source string, topK, minDF int) (domain.InsightResult, error) {
	key := fmt.Sprintf("insights:%d:%s:%d:%d", limit, source, topK, minDF)
	var out domain.InsightResult
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	bodies, err := s.repo.FetchBodies(ctx, domain.BodiesQuery{Limit: limit, Source: source})
	if err != nil {
		return domain.InsightResult{}, err
	}

	out = s.engine.Compute(bodies, topK, minDF)
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}
