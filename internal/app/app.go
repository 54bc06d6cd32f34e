// Package app assembles the bike-share services from configuration. It is
// shared by the CLI and the HTTP server.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"bikeshare-platform/internal/catalog"
	"bikeshare-platform/internal/config"
	"bikeshare-platform/internal/enrich"
	"bikeshare-platform/internal/repository"
	"bikeshare-platform/internal/services"
	"bikeshare-platform/pkg/database"
	"bikeshare-platform/pkg/logging"
	"bikeshare-platform/pkg/metrics"
)

// Version is reported by both binaries and in every log entry
const Version = "1.0.0"

// Options tune how the application is assembled
type Options struct {
	Service    string
	LogOutput  io.Writer
	LogLevel   *logging.LogLevel
	Registerer prometheus.Registerer
}

// App holds the wired services
type App struct {
	Config   *config.Config
	Logger   *logging.StructuredLogger
	Metrics  *metrics.Collector
	Catalog  *catalog.Catalog
	Datasets *services.DatasetService
	Reports  *services.ReportService

	db *database.PostgresDB
}

// New builds the application for cfg. The configuration must already be
// validated.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	level := logging.ParseLevel(cfg.Logging.Level)
	if opts.LogLevel != nil {
		level = *opts.LogLevel
	}
	service := opts.Service
	if service == "" {
		service = "bikeshare"
	}

	logger := logging.NewStructuredLogger(service, Version, level)
	if opts.LogOutput != nil {
		logger.SetOutput(opts.LogOutput)
	}

	metricsCollector := metrics.NewCollector("bikeshare", opts.Registerer)

	cat := catalog.Default()
	if cfg.Data.CatalogFile != "" {
		loaded, err := catalog.LoadFile(cfg.Data.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load city catalog: %w", err)
		}
		cat = loaded
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metricsCollector,
		Catalog: cat,
	}

	repo, err := a.repository(ctx)
	if err != nil {
		return nil, err
	}

	a.Datasets = services.NewDatasetService(cat, repo, enrich.DefaultGenerations, logger, metricsCollector)
	a.Reports = services.NewReportService(logger, metricsCollector)

	logger.Debug(ctx, "[APP_INIT] Application assembled", logging.Fields{
		"source": repo.Source(),
		"cities": cat.IDs(),
	})

	return a, nil
}

func (a *App) repository(ctx context.Context) (repository.TripRepository, error) {
	cfg := a.Config

	switch cfg.Data.Source {
	case config.SourcePostgres:
		db, err := database.NewPostgresDB(ctx, &database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.Database,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		}, a.Logger, a.Metrics)
		if err != nil {
			return nil, err
		}
		a.db = db
		return repository.NewPostgresRepository(db, cfg.Database.Table, cfg.Data.StrictParse, a.Logger), nil

	case config.SourceCSV:
		return repository.NewCSVRepository(cfg.Data.Dir, cfg.Data.StrictParse, a.Logger), nil

	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// HealthCheck pings the database when the postgres source is in use
func (a *App) HealthCheck(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.HealthCheck(ctx)
}

// Close releases the database connection, if any
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
