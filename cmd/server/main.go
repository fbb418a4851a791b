package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"sufragio/internal/candidates"
	"sufragio/internal/identity"
	"sufragio/internal/jwttoken"
	"sufragio/internal/platform/config"
	"sufragio/internal/platform/httpserver"
	"sufragio/internal/platform/logger"
	"sufragio/internal/platform/postgres"
	"sufragio/internal/reference"
	"sufragio/internal/results"
	"sufragio/internal/seed"
	httptransport "sufragio/internal/transport/http"
	"sufragio/internal/voting"
)

// main wires the dependency graph and owns the process lifecycle. Business
// logic lives in the internal feature packages.
func main() {
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

	regionStore := reference.NewPostgresRegionStore(db)
	if err := seed.NewLoader(regionStore, candidates.NewPostgres(db), log).EnsureRegions(ctx); err != nil {
		log.Error("region bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Refresh tokens live in Redis when available; the in-memory fallback
	// keeps single-node development working without one.
	var refreshStore identity.RefreshStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		refreshStore = identity.NewRedisRefreshStore(redisClient)
	} else {
		log.Warn("REDIS_ADDR not set, refresh tokens held in memory")
		refreshStore = identity.NewMemoryRefreshStore()
	}

	var registry identity.RegistryClient
	if cfg.RegistryMock {
		log.Warn("identity registry mock enabled")
		registry = identity.MockRegistryClient{Latency: 100 * time.Millisecond}
	} else {
		registry = identity.NewHTTPRegistryClient(cfg.RegistryBaseURL, cfg.RegistryToken, config.RegistryTimeout)
	}

	tokens := jwttoken.New(cfg.JWTSigningKey, "sufragio", "sufragio-api")

	candidateStore := candidates.NewPostgres(db)
	candidateService := candidates.NewService(candidateStore, regionStore, log)
	identityService := identity.NewService(
		identity.NewPostgresVoterStore(db),
		refreshStore,
		regionStore,
		registry,
		tokens,
		log,
		identity.NewMetrics(),
	)
	votingService := voting.NewService(
		voting.NewPostgresStore(db),
		identity.NewPostgresVoterStore(db),
		candidateStore,
		log,
		voting.NewMetrics(),
	)
	resultsService := results.NewService(results.NewPostgresStore(db), log)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		JWTValidator: tokens,
		Reference:    reference.NewHandler(regionStore, log),
		Candidates:   candidates.NewHandler(candidateService, log),
		Identity:     identity.NewHandler(identityService, log),
		Voting:       voting.NewHandler(votingService, log),
		Results:      results.NewHandler(resultsService, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting sufragio", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
