package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"reviewpulse/internal/adapters/browser"
	"reviewpulse/internal/adapters/htmlpage"
	"reviewpulse/internal/adapters/observability"
	"reviewpulse/internal/app"
	"reviewpulse/internal/extract"
	"reviewpulse/internal/shared"
	mysqlrepo "reviewpulse/internal/storage/mysql"
)

type urlList []string

func (u *urlList) String() string { return strings.Join(*u, ",") }
func (u *urlList) Set(v string) error {
	*u = append(*u, v)
	return nil
}

func main() {
	var (
		urls   urlList
		source = flag.String("source", "coupang", "source label stored with collected reviews")
		replay = flag.String("replay", "", "parse a saved HTML dump instead of driving a browser")
	)
	flag.Var(&urls, "url", "product page URL (repeatable)")
	flag.Parse()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.Serve()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	ctx := context.Background()
	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	svc := app.NewCollectService(extract.New(log.Logger), repo, log.Logger)

	if *replay != "" {
		runReplay(ctx, svc, *replay, *source, urls)
		return
	}

	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "at least one -url is required (or -replay)")
		os.Exit(2)
	}

	sess, err := browser.NewSession(browser.Config{
		DebuggerAddr: cfg.ChromeAddr,
		Proxy:        cfg.ChromeProxy,
		Cookies:      cfg.Cookies,
		ScrollLoops:  cfg.ScrollLoops,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("browser session failed")
	}
	defer sess.Close()

	// navigations are paced globally even when workers > 1; burst scraping is
	// what gets a session challenged
	limiter := rate.NewLimiter(rate.Every(4*time.Second), 1)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, raw := range urls {
		target := cleanURL(raw)

		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := limiter.Wait(ctx); err != nil {
				log.Warn().Err(err).Msg("rate limiter interrupted")
				return
			}
			collectOne(ctx, sess, svc, target, *source)
			browser.JitterSleep(500*time.Millisecond, 1500*time.Millisecond)
		}(target)
	}

	wg.Wait()
	log.Info().Msg("collection completed")
}

func collectOne(ctx context.Context, sess *browser.Session, svc *app.CollectService, target, source string) {
	page, err := sess.OpenProduct(ctx, target)
	if err != nil {
		log.Warn().Str("url", target).Err(err).Msg("open failed")
		return
	}
	defer page.Close()

	st, err := svc.Collect(ctx, page, source, target)
	if err != nil {
		log.Warn().Str("url", target).Err(err).Msg("collect failed")
		return
	}
	observability.ObserveCollect(source, "extracted", st.Extracted)
	observability.ObserveCollect(source, "inserted", st.Inserted)
	observability.ObserveCollect(source, "duplicate", st.Duplicates)
}

func runReplay(ctx context.Context, svc *app.CollectService, path, source string, urls urlList) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("open replay file failed")
	}
	defer f.Close()

	page, err := htmlpage.Parse(f, "text/html")
	if err != nil {
		log.Fatal().Err(err).Msg("parse replay file failed")
	}

	productURL := "replay://" + path
	if len(urls) > 0 {
		productURL = cleanURL(urls[0])
	}

	st, err := svc.Collect(ctx, page, source, productURL)
	if err != nil {
		log.Fatal().Err(err).Msg("replay collect failed")
	}
	observability.ObserveCollect(source, "extracted", st.Extracted)
	observability.ObserveCollect(source, "inserted", st.Inserted)
	observability.ObserveCollect(source, "duplicate", st.Duplicates)
}

// cleanURL drops fragments and campaign tracking parameters so the same
// product page always stores the same product_url.
func cleanURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""

	q := u.Query()
	for name := range q {
		low := strings.ToLower(name)
		if strings.HasPrefix(low, "utm_") {
			q.Del(name)
			continue
		}
		switch low {
		case "src", "spec", "addtag", "ctag", "lptag", "itime", "wpcid", "wref", "wtime", "traceid":
			q.Del(name)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
