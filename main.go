package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"skill-hand/config"
	"skill-hand/providers"
	"skill-hand/providers/bucket"
	"skill-hand/providers/csvfile"
	pgterms "skill-hand/providers/postgres"
	"skill-hand/services"
	"skill-hand/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	ctx := context.Background()
	metrics := services.NewMetrics(prometheus.DefaultRegisterer)

	// Setup Term Source
	provider, err := newTermProvider(ctx, cfg, logging)
	if err != nil {
		logging.Fatal("Term source setup failed", zap.String("source", cfg.TermsSource), zap.Error(err))
	}
	catalog := services.NewTermCatalog(provider, metrics, logging)
	if err := catalog.Reload(ctx); err != nil {
		// Die übrigen Skills funktionieren auch ohne Termliste
		logging.Error("Initial term load failed, term skills will report errors until the next reload", zap.Error(err))
	}

	// Setup Services
	processor := services.NewBatchProcessor(cfg.Workers, metrics, logging)
	dates := services.NewDateExtractor(time.Now)

	router := newRouter(cfg, processor, catalog, dates, prometheus.DefaultGatherer, logging)

	// Setup Cron
	if cfg.TermsRefreshSchedule != "" {
		cronScheduler := cron.New()
		_, err := cronScheduler.AddFunc(cfg.TermsRefreshSchedule, func() {
			logging.Info("Running scheduled term reload...")
			if err := catalog.Reload(context.Background()); err != nil {
				logging.Error("Scheduled term reload failed", zap.Error(err))
			}
		})
		if err != nil {
			logging.Fatal("Invalid TERMS_REFRESH_SCHEDULE", zap.String("schedule", cfg.TermsRefreshSchedule), zap.Error(err))
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort), zap.Int("workers", cfg.Workers))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// newTermProvider wählt die Quelle der Referenz-Termliste anhand von TERMS_SOURCE.
func newTermProvider(ctx context.Context, cfg *config.Config, logging *zap.Logger) (providers.Provider, error) {
	switch cfg.TermsSource {
	case config.TermsSourceS3:
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return bucket.NewFetcher(cfg, client, logging), nil
	case config.TermsSourcePostgres:
		db, err := storage.OpenPostgres(cfg)
		if err != nil {
			return nil, err
		}
		logging.Info("Successfully connected to terms database.")
		return pgterms.NewFetcher(cfg, db, logging), nil
	default:
		return csvfile.NewFetcher(cfg, logging), nil
	}
}
