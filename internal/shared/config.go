package shared

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	// insight query defaults
	InsightLimit int
	InsightTopK  int
	InsightMinDF int

	// collector
	Workers      int
	ChromeAddr   string
	ChromeProxy  string
	Cookies      string
	ScrollLoops  int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviewpulse?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		InsightLimit: atoi("INSIGHT_LIMIT", 1000),
		InsightTopK:  atoi("INSIGHT_TOPK", 15),
		InsightMinDF: atoi("INSIGHT_MIN_DF", 2),

		Workers:     atoi("COLLECT_WORKERS", 2),
		ChromeAddr:  env("CHROME_DEBUGGING_ADDR", ""),
		ChromeProxy: env("CHROME_PROXY", ""),
		Cookies:     env("COLLECT_COOKIES", ""),
		ScrollLoops: atoi("COLLECT_SCROLLS", 6),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
