package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// InsertOutcome distinguishes a fresh row from a fingerprint collision.
// Duplicate is an expected, non-fatal result — callers tally it and continue.
type InsertOutcome int

const (
	Inserted InsertOutcome = iota
	Duplicate
)

func (o InsertOutcome) String() string {
	if o == Duplicate {
		return "duplicate"
	}
	return "inserted"
}

// BodiesQuery bounds which stored bodies feed the insight engine.
type BodiesQuery struct {
	Limit  int
	Source string // optional; "" means all sources
}

type ReviewsQuery struct {
	Limit  int
	Source string // optional
}

type ReviewRepository interface {
	// InsertIfNew persists r unless a row with the same HashID already
	// exists. At most one row per fingerprint, guaranteed by storage.
	InsertIfNew(ctx context.Context, r Review) (InsertOutcome, error)

	// FetchBodies returns non-empty review bodies, most recent first.
	FetchBodies(ctx context.Context, q BodiesQuery) ([]string, error)

	ListReviews(ctx context.Context, q ReviewsQuery) ([]Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
