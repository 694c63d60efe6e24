package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"reviewpulse/internal/adapters/observability"
	"reviewpulse/internal/app"
	"reviewpulse/internal/extract"
	"reviewpulse/internal/shared"
	mysqlrepo "reviewpulse/internal/storage/mysql"
)

func main() {
	var (
		path   = flag.String("path", "", "CSV file to import")
		source = flag.String("source", "partner", "source label stored with imported reviews")
		preset = flag.String("preset", "generic", "column preset: "+presetNames())
	)
	flag.Parse()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if *path == "" {
		fmt.Fprintln(os.Stderr, "-path is required")
		os.Exit(2)
	}

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

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("open csv failed")
	}
	defer f.Close()

	st, err := svc.ImportCSV(ctx, f, *source, *preset)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
	log.Info().
		Int("rows", st.Rows).
		Int("inserted", st.Inserted).
		Int("duplicates", st.Duplicates).
		Msg("import completed")
}

func presetNames() string {
	names := make([]string, 0, len(app.Presets))
	for name := range app.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
