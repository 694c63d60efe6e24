//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"

	httpserver "reviewpulse/internal/adapters/http_server"
	redisad "reviewpulse/internal/adapters/redis"
	"reviewpulse/internal/app"
	"reviewpulse/internal/domain"
	"reviewpulse/internal/extract"
	"reviewpulse/internal/insight"
	mysqlrepo "reviewpulse/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=reviewpulse",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/reviewpulse?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestHTTP_EndToEnd_SubmitListInsights(t *testing.T) {
	db := startMySQL(t)

	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer m.Close()

	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	cache := redisad.New(m.Addr(), "", 0)
	defer cache.Close()

	q := app.NewQueryService(repo, cache, insight.New(insight.Config{}), time.Minute)
	c := app.NewCollectService(extract.New(zerolog.Nop()), repo, zerolog.Nop())

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Q:        q,
		C:        c,
		Insights: httpserver.InsightDefaults{Limit: 1000, TopK: 15, MinDF: 1},
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	submit := func(body, date string, rating float64) string {
		payload := fmt.Sprintf(`{"product_url":"https://example.com/p/1","body":%q,"review_date":%q,"rating":%g}`,
			body, date, rating)
		res, err := http.Post(ts.URL+"/v1/reviews", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusCreated {
			t.Fatalf("submit status %d", res.StatusCode)
		}
		var out map[string]string
		if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
			t.Fatalf("decode submit: %v", err)
		}
		return out["hash_id"]
	}

	hash1 := submit("조립 설명서가 부실해서 고생했어요", "2024-03-07", 2)
	submit("배송이 빨라서 좋았습니다", "2024-03-08", 5)

	// duplicate submit answers 200 with the same fingerprint
	payload := `{"product_url":"https://example.com/p/1","body":"조립 설명서가 부실해서 고생했어요","review_date":"2024-03-07","rating":2}`
	res, err := http.Post(ts.URL+"/v1/reviews", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST dup: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("dup status %d", res.StatusCode)
	}
	var dup map[string]string
	_ = json.NewDecoder(res.Body).Decode(&dup)
	if dup["status"] != "duplicate" || dup["hash_id"] != hash1 {
		t.Fatalf("dup response: %v", dup)
	}

	// list
	lres, err := http.Get(ts.URL + "/v1/reviews?limit=10")
	if err != nil {
		t.Fatalf("GET reviews: %v", err)
	}
	defer lres.Body.Close()
	var reviews []domain.Review
	if err := json.NewDecoder(lres.Body).Decode(&reviews); err != nil {
		t.Fatalf("decode reviews: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("reviews = %d, want 2", len(reviews))
	}

	// insights over the stored bodies
	ires, err := http.Get(ts.URL + "/v1/insights")
	if err != nil {
		t.Fatalf("GET insights: %v", err)
	}
	defer ires.Body.Close()
	var insights domain.InsightResult
	if err := json.NewDecoder(ires.Body).Decode(&insights); err != nil {
		t.Fatalf("decode insights: %v", err)
	}
	if insights.Total != 2 {
		t.Fatalf("insights total = %d", insights.Total)
	}
	var sawAssembly bool
	for _, p := range insights.PainPoints {
		if p.Label == "설치/조립" && p.Count == 1 {
			sawAssembly = true
		}
	}
	if !sawAssembly {
		t.Fatalf("pain points = %+v", insights.PainPoints)
	}
}
