package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"bikeshare-platform/internal/app"
	"bikeshare-platform/internal/catalog"
	"bikeshare-platform/internal/config"
	"bikeshare-platform/internal/repository"
	"bikeshare-platform/internal/services"
	"bikeshare-platform/pkg/database"
	"bikeshare-platform/pkg/logging"
	"bikeshare-platform/pkg/metrics"
)

type options struct {
	dataDir   string
	batchSize int
	cities    []string
	strict    bool
}

func main() {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "ingester",
		Short: "Import city trip CSV files into PostgreSQL",
		Long: `Import city trip CSV files into the trips table read by the
postgres source. The stored trips of every imported city are replaced in a
single transaction.

Examples:
  ingester --data-dir ./data
  ingester --cities chicago,washington --batch-size 500`,
		Version:      app.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "Directory containing the city CSV files (default BIKESHARE_DATA_DIR)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 1000, "Number of trips inserted per statement")
	cmd.Flags().StringSliceVar(&opts.cities, "cities", nil, "Cities to import (default all)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail a city on its first malformed record")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cobra.Command, opts options) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.Data.Dir = opts.dataDir
	}
	if cmd.Flags().Changed("strict") {
		cfg.Data.StrictParse = opts.strict
	}

	// The ingester always reads CSV and writes PostgreSQL
	cfg.Data.Source = config.SourcePostgres
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NewStructuredLogger("bikeshare-ingester", app.Version, logging.ParseLevel(cfg.Logging.Level))

	logger.Info(ctx, "[INGESTER_START] Starting trip import", logging.Fields{
		"version":    app.Version,
		"data_dir":   cfg.Data.Dir,
		"batch_size": opts.batchSize,
		"cities":     opts.cities,
	})

	metricsCollector := metrics.NewCollector("bikeshare_ingester", prometheus.NewRegistry())

	cat := catalog.Default()
	if cfg.Data.CatalogFile != "" {
		if cat, err = catalog.LoadFile(cfg.Data.CatalogFile); err != nil {
			return err
		}
	}

	// Initialize database
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
	}, logger, metricsCollector)
	if err != nil {
		logger.Error(ctx, "[INGESTER_ERROR] Failed to connect to database", logging.Fields{}, err)
		return err
	}
	defer db.Close()

	source := repository.NewCSVRepository(cfg.Data.Dir, cfg.Data.StrictParse, logger)
	writer := repository.NewPostgresTripWriter(db, cfg.Database.Table, opts.batchSize, logger, metricsCollector)
	importer := services.NewImportService(cat, source, writer, logger, metricsCollector)

	result, err := importer.ImportCities(ctx, opts.cities)
	if err != nil {
		logger.Error(ctx, "[INGESTION_ERROR] Import failed", logging.Fields{}, err)
		return err
	}

	// Print results
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("IMPORT COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Cities:          %d of %d\n", result.ImportedCities, result.TotalCities)
	fmt.Printf("Total Rows:      %d\n", result.TotalRows)
	fmt.Printf("Imported Rows:   %d\n", result.ImportedRows)
	fmt.Printf("Skipped Rows:    %d\n", result.SkippedRows)
	fmt.Printf("Duration:        %v\n", result.Duration)

	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(result.Errors))
		for _, errMsg := range result.Errors {
			fmt.Printf("  - %s\n", errMsg)
		}
		return fmt.Errorf("%d of %d cities failed to import", len(result.Errors), result.TotalCities)
	}

	return nil
}
