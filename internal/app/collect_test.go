package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"reviewpulse/internal/adapters/htmlpage"
	"reviewpulse/internal/app"
	"reviewpulse/internal/domain"
	"reviewpulse/internal/extract"
)

// memRepo stores reviews keyed by fingerprint, mirroring the unique-key
// behaviour of the real repository.
type memRepo struct {
	rows map[string]domain.Review
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]domain.Review{}} }

func (m *memRepo) InsertIfNew(ctx context.Context, r domain.Review) (domain.InsertOutcome, error) {
	if _, ok := m.rows[r.HashID]; ok {
		return domain.Duplicate, nil
	}
	m.rows[r.HashID] = r
	return domain.Inserted, nil
}

func (m *memRepo) FetchBodies(ctx context.Context, q domain.BodiesQuery) ([]string, error) {
	return nil, nil
}

func (m *memRepo) ListReviews(ctx context.Context, q domain.ReviewsQuery) ([]domain.Review, error) {
	return nil, nil
}

const collectFixture = `<!doctype html>
<html><body>
<section id="reviews"><ul>
  <li class="review__item">
    <span aria-label="평점 5점"></span>
    <p>배송이 빨라서 좋았습니다</p>
    <span class="reg-date">2024.03.07</span>
  </li>
  <li class="review__item">
    <span aria-label="평점 5점"></span>
    <p>배송이 빨라서 좋았습니다</p>
    <span class="reg-date">2024.03.07</span>
  </li>
</ul></section>
</body></html>`

func TestCollect_InsertsOnceAcrossIdenticalCards(t *testing.T) {
	page, err := htmlpage.FromString(collectFixture)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	repo := newMemRepo()
	svc := app.NewCollectService(extract.New(zerolog.Nop()), repo, zerolog.Nop())

	st, err := svc.Collect(context.Background(), page, "coupang", "https://example.com/p/1")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if st.Extracted != 2 {
		t.Fatalf("extracted = %d, want 2", st.Extracted)
	}
	if st.Inserted != 1 || st.Duplicates != 1 {
		t.Fatalf("inserted=%d duplicates=%d, want 1/1", st.Inserted, st.Duplicates)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("stored rows = %d, want 1", len(repo.rows))
	}

	for _, rv := range repo.rows {
		if rv.Source != "coupang" {
			t.Errorf("source = %q", rv.Source)
		}
		if rv.ProductURL == nil || *rv.ProductURL != "https://example.com/p/1" {
			t.Errorf("product url = %v", rv.ProductURL)
		}
		if rv.Rating == nil || *rv.Rating != 5 {
			t.Errorf("rating = %v", rv.Rating)
		}
		if rv.Body == nil || !strings.Contains(*rv.Body, "배송이 빨라서") {
			t.Errorf("body = %v", rv.Body)
		}
		if rv.ReviewDate != "2024.03.07" {
			t.Errorf("review date = %q", rv.ReviewDate)
		}
		if len(rv.HashID) != 64 {
			t.Errorf("hash id = %q", rv.HashID)
		}
	}

	// a second pass over the same page inserts nothing new
	st2, err := svc.Collect(context.Background(), page, "coupang", "https://example.com/p/1")
	if err != nil {
		t.Fatalf("collect again: %v", err)
	}
	if st2.Inserted != 0 || st2.Duplicates != 2 {
		t.Fatalf("second pass inserted=%d duplicates=%d, want 0/2", st2.Inserted, st2.Duplicates)
	}
}

func TestSubmit_FillsFingerprint(t *testing.T) {
	repo := newMemRepo()
	svc := app.NewCollectService(extract.New(zerolog.Nop()), repo, zerolog.Nop())

	out, err := svc.Submit(context.Background(), app.SubmitInput{
		ProductURL: "https://example.com/p/9",
		Body:       "생각보다 쿠션이 딱딱해요",
		ReviewDate: "2024-05-01",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out != domain.Inserted {
		t.Fatalf("outcome = %v, want inserted", out)
	}

	want := domain.Fingerprint("partner", "https://example.com/p/9", "생각보다 쿠션이 딱딱해요", "2024-05-01")
	if _, ok := repo.rows[want]; !ok {
		t.Fatalf("row not stored under computed fingerprint; rows=%v", repo.rows)
	}

	// idempotent retry
	out, err = svc.Submit(context.Background(), app.SubmitInput{
		ProductURL: "https://example.com/p/9",
		Body:       "생각보다 쿠션이 딱딱해요",
		ReviewDate: "2024-05-01",
	})
	if err != nil || out != domain.Duplicate {
		t.Fatalf("retry outcome=%v err=%v, want duplicate", out, err)
	}
}
