package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchpulse/livecenter/external/apifootball"
	"github.com/matchpulse/livecenter/internal/config"
	"github.com/matchpulse/livecenter/internal/domain/fixture"
	"github.com/matchpulse/livecenter/internal/domain/runledger"
	"github.com/matchpulse/livecenter/internal/domain/tips"
	"github.com/matchpulse/livecenter/internal/infrastructure/repository/memory"
	"github.com/matchpulse/livecenter/internal/infrastructure/repository/postgres"
	"github.com/matchpulse/livecenter/internal/interfaces/httpapi"
	"github.com/matchpulse/livecenter/internal/platform/cache"
	"github.com/matchpulse/livecenter/internal/platform/logging"
	"github.com/matchpulse/livecenter/internal/platform/resilience"
	"github.com/matchpulse/livecenter/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	svcLogger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(svcLogger)

	var (
		fixtureRepo fixture.Repository
		ledgerRepo  runledger.Repository
	)
	if cfg.DBURL == "" {
		logger.Info("DB_URL is not set, using in-memory repositories")
		fixtureRepo = memory.NewFixtureRepository(memory.SeedFixtures(time.Now()))
		ledgerRepo = memory.NewSyncRunRepository()
	} else {
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		fixtureRepo = postgres.NewFixtureRepository(db)
		ledgerRepo = postgres.NewSyncRunRepository(db)
	}

	fixtureSvc := usecase.NewFixtureService(fixtureRepo)
	tipSvc := usecase.NewTipService(fixtureRepo, tips.NewHeuristicProvider(), cache.NewStore(cfg.TipCacheTTL), svcLogger)

	var syncSvc *usecase.LiveSyncService
	if cfg.ProviderEnabled {
		scoreboard := apifootball.NewClient(apifootball.ClientConfig{
			BaseURL:    cfg.ProviderBaseURL,
			APIKey:     cfg.ProviderAPIKey,
			Timeout:    cfg.ProviderTimeout,
			MaxRetries: cfg.ProviderMaxRetries,
			Logger:     svcLogger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ProviderCircuitEnabled,
				FailureThreshold: cfg.ProviderCircuitFailures,
				OpenTimeout:      cfg.ProviderCircuitOpenWait,
				HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenReq,
			},
		})
		syncSvc = usecase.NewLiveSyncService(scoreboard, fixtureRepo, ledgerRepo, usecase.LiveSyncConfig{
			KickoffLookahead: cfg.SyncKickoffLookahead,
			LeagueAllowlist:  cfg.LeagueAllowlist,
			WorkerCount:      cfg.SyncWorkerCount,
		}, svcLogger)
	} else {
		logger.Info("provider is disabled, sync endpoint will refuse requests")
	}

	handler := httpapi.NewHandler(fixtureSvc, tipSvc, syncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.SyncCronSecret)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
