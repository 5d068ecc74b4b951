// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"callguard/internal/alert"
	"callguard/internal/api"
	"callguard/internal/audit"
	"callguard/internal/common/auth"
	"callguard/internal/common/config"
	"callguard/internal/common/database"
	"callguard/internal/common/logger"
	"callguard/internal/common/observability"
	"callguard/internal/directory"
	"callguard/internal/engine"
	"callguard/internal/geocode"
	"callguard/internal/models"
	"callguard/internal/refdata"
	"callguard/internal/scorer/affiliation"
	"callguard/internal/scorer/geofit"
	"callguard/internal/scorer/kyc"
	"callguard/internal/speech"
	"callguard/internal/telco"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting fraud scoring server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, cfg.App.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Reference data store (postgres, fixtures or the remote telco API) ---
	var store refdata.Store
	switch cfg.RefData.Source {
	case "postgres":
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
		store = refdata.NewPostgresStore(pg.DB)

	case "telco":
		tokens := auth.NewTokenSource(cfg.Telco)
		store = telco.NewClient(cfg.Telco, tokens)
		zapLog.Info("Telco API reference store configured", zap.String("baseURL", cfg.Telco.BaseURL))

	default:
		fixtures, err := refdata.NewFixtureStore(cfg.RefData.FixturesPath)
		if err != nil {
			zapLog.Fatal("fixture store load failed", zap.Error(err))
		}
		store = fixtures
		zapLog.Info("Fixture reference store loaded", zap.String("path", cfg.RefData.FixturesPath))
	}

	// --- Organization directory ---
	dir, err := directory.Load(cfg.Directory.Path)
	if err != nil {
		zapLog.Fatal("organization directory load failed", zap.Error(err))
	}

	// --- Geocoder (only used in geocode location mode) ---
	var geocoder geofit.Geocoder
	if cfg.Scoring.LocationMode == string(geofit.ModeGeocode) {
		geocoder = geocode.NewClient(cfg.Geocoder)
	}

	// --- Scorers and engine ---
	location := geofit.NewService(
		geofit.LoadConfig(cfg.Scoring.LocationMode, float64(cfg.Scoring.DefaultRadius)),
		store, store, geocoder, log,
	)
	company := affiliation.NewService(dir, log)
	identity := kyc.NewService(store, log)

	engineCfg := &engine.Config{
		Weights: models.ScoringWeights{
			Location: cfg.Scoring.Weights.Location,
			Company:  cfg.Scoring.Weights.Company,
			KYC:      cfg.Scoring.Weights.KYC,
		},
		ScorerTimeout:  time.Duration(cfg.Scoring.ScorerTimeout) * time.Millisecond,
		SimSwapEnabled: cfg.Scoring.SimSwapEnabled,
		SimSwapWindow:  time.Duration(cfg.Scoring.SimSwapWindow) * time.Hour,
	}
	eng, err := engine.New(engineCfg, location, company, identity, store, obs, log)
	if err != nil {
		zapLog.Fatal("engine init failed", zap.Error(err))
	}

	// --- Verdict cache (optional) ---
	var cache *database.RedisClient
	var cacheTTL time.Duration
	if cfg.Server.VerdictCacheTTL > 0 {
		err = retryWithBackoff(func() error {
			var err error
			cache, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return cache.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer cache.Close()
		cacheTTL = time.Duration(cfg.Server.VerdictCacheTTL) * time.Second
		zapLog.Info("Redis connected successfully")
	}

	// --- Audit trail indexer (optional) ---
	var indexer *audit.Indexer
	if cfg.Audit.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Audit)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		indexer = audit.NewIndexer(esClient, cfg.Audit.Index, log)
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Critical verdict alerting (optional) ---
	var alerts *alert.Publisher
	if cfg.Alerts.Enabled {
		alerts, err = alert.NewPublisher(ctx, cfg.Alerts.Region, cfg.Alerts.TopicARN, log)
		if err != nil {
			zapLog.Fatal("sns publisher init failed", zap.Error(err))
		}
		zapLog.Info("SNS alert publisher configured", zap.String("topic", cfg.Alerts.TopicARN))
	}

	handler := api.NewHandler(api.HandlerDeps{
		Engine:      eng,
		Location:    location,
		Identity:    identity,
		Transcriber: speech.NewTranscriber(cfg.Speech),
		Extractor:   speech.NewExtractor(cfg.Speech),
		Cache:       cache,
		CacheTTL:    cacheTTL,
		Indexer:     indexer,
		Alerts:      alerts,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(handler, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
