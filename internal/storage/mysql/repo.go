package mysql

import (
	"context"
	"database/sql"

	"reviewpulse/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema creates the reviews table when it does not exist yet, so the
// collector and CSV importer can run against a fresh database.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createReviewsSQL)
	return err
}

func (r *Repo) InsertIfNew(ctx context.Context, rv domain.Review) (domain.InsertOutcome, error) {
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.Source,
		valStr(rv.ProductURL),
		valF64(rv.Rating),
		valStr(rv.Body),
		rv.ReviewDate,
		rv.HashID,
	)
	if err != nil {
		return domain.Duplicate, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Duplicate, err
	}
	if n == 0 {
		return domain.Duplicate, nil
	}
	return domain.Inserted, nil
}

func (r *Repo) FetchBodies(ctx context.Context, q domain.BodiesQuery) ([]string, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if q.Source != "" {
		rows, err = r.db.QueryContext(ctx, fetchBodiesBySourceSQL, q.Source, q.Limit)
	} else {
		rows, err = r.db.QueryContext(ctx, fetchBodiesSQL, q.Limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		out = append(out, body)
	}
	return out, rows.Err()
}

func (r *Repo) ListReviews(ctx context.Context, q domain.ReviewsQuery) ([]domain.Review, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if q.Source != "" {
		rows, err = r.db.QueryContext(ctx, listReviewsBySourceSQL, q.Source, q.Limit)
	} else {
		rows, err = r.db.QueryContext(ctx, listReviewsSQL, q.Limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var (
			rv         domain.Review
			productURL sql.NullString
			rating     sql.NullFloat64
			body       sql.NullString
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.Source,
			&productURL,
			&rating,
			&body,
			&rv.ReviewDate,
			&rv.HashID,
			&rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		if productURL.Valid {
			s := productURL.String
			rv.ProductURL = &s
		}
		if rating.Valid {
			f := rating.Float64
			rv.Rating = &f
		}
		if body.Valid {
			s := body.String
			rv.Body = &s
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
