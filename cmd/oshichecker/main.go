package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/Oshichecker/internal/api"
	"github.com/MikeSquared-Agency/Oshichecker/internal/catalog"
	"github.com/MikeSquared-Agency/Oshichecker/internal/config"
	"github.com/MikeSquared-Agency/Oshichecker/internal/diagnosis"
	"github.com/MikeSquared-Agency/Oshichecker/internal/hermes"
	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
	"github.com/MikeSquared-Agency/Oshichecker/internal/store"
	"github.com/MikeSquared-Agency/Oshichecker/internal/sweeper"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	var cat *catalog.Catalog
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Load(cfg.Catalog.Path)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "questions", len(cat.Questions), "members", len(cat.Members))

	// Snapshot store
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare database", "error", err)
			os.Exit(1)
		}
		db = pg
		logger.Info("connected to database")
	} else {
		db = store.NewMemoryStore()
		logger.Warn("no database configured, sessions are kept in memory")
	}
	defer db.Close()

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, hermes.Options{
			URL:          cfg.Hermes.URL,
			StreamMaxAge: cfg.StreamMaxAge(),
		}, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
			if err := hc.OnDiagnosisCompleted(func(e hermes.DiagnosisCompletedEvent) {
				logger.Debug("diagnosis completed", "session_id", e.SessionID, "ranked", e.RankedIDs, "korean_level", e.KoreanLevel)
			}); err != nil {
				logger.Warn("failed to subscribe to completions", "error", err)
			}
		}
	}

	// Diagnosis engine
	engine := diagnosis.NewEngine(cfg.Tournament.BattleRounds, scoring.NewRanker(cfg.RankingWeights()))
	svc := diagnosis.NewService(engine, db, hermesClient, logger)

	// Sweeper
	sw := sweeper.New(db, hermesClient, cfg.SessionTTL(), cfg.SweepInterval(), logger)
	sw.Start(ctx)
	defer sw.Stop()

	// API server
	router := api.NewRouter(svc, cat, db, sw, api.RouterConfig{
		AdminToken:         cfg.Server.AdminToken,
		PoolSize:           cfg.Tournament.PoolSize,
		ArtistWeight:       cfg.Tournament.ArtistWeight,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	}, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port, "battle_rounds", engine.Rounds())
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
