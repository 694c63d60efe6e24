package insight_test

import (
	"reflect"
	"sync"
	"testing"

	"reviewpulse/internal/insight"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"  배송이\n너무   늦었어요!!  ", "배송이 너무 늦었어요"},
		{"good!!! product ★★★", "good product"},
		{"가격 100% 만족", "가격 100 만족"},
	}
	for _, tc := range cases {
		if got := insight.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"배송이\n늦음...", "  mixed 한글 TEXT 123!@# ", "★5점 추천!"}
	for _, in := range inputs {
		once := insight.Normalize(in)
		if twice := insight.Normalize(once); twice != once {
			t.Errorf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	e := insight.New(insight.Config{})
	got := e.Compute(nil, 15, 2)
	if got.Total != 0 || len(got.TopTerms) != 0 || len(got.TopBigrams) != 0 || len(got.PainPoints) != 0 {
		t.Fatalf("expected zeroed result, got %+v", got)
	}
}

func TestCompute_MinDocFreq(t *testing.T) {
	// Alternate stopword table: the engine takes vocabularies as config so
	// tests can probe counting semantics directly.
	e := insight.New(insight.Config{
		Stopwords:      []string{"너무", "진짜"},
		PainCategories: []insight.PainCategory{},
	})
	bodies := []string{
		"배송 너무 늦었어요",
		"배송 늦음 진짜",
		"가격 괜찮아요",
	}
	got := e.Compute(bodies, 15, 2)
	if got.Total != 3 {
		t.Fatalf("total = %d, want 3", got.Total)
	}
	// 배송 appears in 2 documents -> reportable. Every other term has
	// document support 1 and must be filtered, whatever its raw frequency.
	if len(got.TopTerms) != 1 || got.TopTerms[0].Term != "배송" || got.TopTerms[0].Freq != 2 {
		t.Fatalf("top terms = %+v, want [{배송 2}]", got.TopTerms)
	}
}

func TestCompute_DocFreqCountsDocumentsNotOccurrences(t *testing.T) {
	e := insight.New(insight.Config{Stopwords: []string{}})
	bodies := []string{
		"소음 소음 소음 소음", // high raw frequency, single document
		"조립 쉬움",
		"조립 어려움",
	}
	got := e.Compute(bodies, 5, 2)
	for _, tc := range got.TopTerms {
		if tc.Term == "소음" {
			t.Fatalf("소음 has doc support 1 and must not be reported: %+v", got.TopTerms)
		}
	}
	if len(got.TopTerms) != 1 || got.TopTerms[0].Term != "조립" || got.TopTerms[0].Freq != 2 {
		t.Fatalf("top terms = %+v, want [{조립 2}]", got.TopTerms)
	}
}

func TestCompute_Bigrams(t *testing.T) {
	e := insight.New(insight.Config{Stopwords: []string{}})
	bodies := []string{
		"조립 설명서 부실함",
		"조립 설명서 없음",
	}
	got := e.Compute(bodies, 5, 2)
	if len(got.TopBigrams) != 1 || got.TopBigrams[0].Term != "조립 설명서" || got.TopBigrams[0].Freq != 2 {
		t.Fatalf("bigrams = %+v, want [{조립 설명서 2}]", got.TopBigrams)
	}
}

func TestCompute_TieBreakByTerm(t *testing.T) {
	e := insight.New(insight.Config{Stopwords: []string{}})
	bodies := []string{"bb aa", "aa bb"}
	got := e.Compute(bodies, 2, 1)
	want := []string{"aa", "bb"}
	var terms []string
	for _, tc := range got.TopTerms {
		terms = append(terms, tc.Term)
	}
	if !reflect.DeepEqual(terms, want) {
		t.Fatalf("equal-frequency terms = %v, want lexical order %v", terms, want)
	}
}

func TestCompute_PainPoints(t *testing.T) {
	e := insight.New(insight.Config{})
	bodies := []string{
		"가성비 최고인데 비싸요 할인 기대",      // price keywords x3, one document
		"조립이 어렵고 나사가 모자랐어요",       // assembly
		"조립 설명서가 부실해요",            // assembly
		"전반적으로 무난하게 잘 쓰고 있습니다 잘써요", // nothing
	}
	got := e.Compute(bodies, 15, 2)
	if len(got.PainPoints) != 2 {
		t.Fatalf("pain points = %+v, want 2 categories", got.PainPoints)
	}
	if got.PainPoints[0].Label != "설치/조립" || got.PainPoints[0].Count != 2 {
		t.Fatalf("first pain point = %+v, want {설치/조립 2}", got.PainPoints[0])
	}
	// three price keywords in one document still count that document once
	if got.PainPoints[1].Label != "가격" || got.PainPoints[1].Count != 1 {
		t.Fatalf("second pain point = %+v, want {가격 1}", got.PainPoints[1])
	}
}

func TestCompute_StopwordsExcluded(t *testing.T) {
	e := insight.New(insight.Config{}) // default table includes 배송, 너무
	bodies := []string{"배송 너무 빠름 빠름", "배송 너무 빠름"}
	got := e.Compute(bodies, 15, 2)
	for _, tc := range got.TopTerms {
		if tc.Term == "배송" || tc.Term == "너무" {
			t.Fatalf("stopword leaked into vocabulary: %+v", got.TopTerms)
		}
	}
	if len(got.TopTerms) != 1 || got.TopTerms[0].Term != "빠름" {
		t.Fatalf("top terms = %+v, want only 빠름", got.TopTerms)
	}
}

func TestCompute_ConcurrentInvocations(t *testing.T) {
	e := insight.New(insight.Config{})
	bodies := []string{"조립 쉽고 튼튼해요", "조립 금방 했어요", "냄새가 조금 나요"}
	want := e.Compute(bodies, 10, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := e.Compute(bodies, 10, 1); !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent compute diverged: %+v vs %+v", got, want)
			}
		}()
	}
	wg.Wait()
}
