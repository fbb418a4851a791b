package main

import (
	"context"
	"flag"
	"os"

	"sufragio/internal/candidates"
	"sufragio/internal/platform/config"
	"sufragio/internal/platform/logger"
	"sufragio/internal/platform/postgres"
	"sufragio/internal/reference"
	"sufragio/internal/seed"
)

// main loads the canonical regions and, when a ballot file is given, the
// parties and candidates it declares. Safe to rerun.
func main() {
	file := flag.String("file", "", "ballot definition JSON (optional)")
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	loader := seed.NewLoader(
		reference.NewPostgresRegionStore(db),
		candidates.NewPostgres(db),
		log,
	)

	if *file == "" {
		if err := loader.EnsureRegions(ctx); err != nil {
			log.Error("region bootstrap failed", "error", err)
			os.Exit(1)
		}
		log.Info("regions seeded")
		return
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Error("open ballot file failed", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := loader.Load(ctx, f); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("ballot seeded", "file", *file)
}
