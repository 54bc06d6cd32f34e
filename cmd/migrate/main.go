package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"bikeshare-platform/internal/app"
	"bikeshare-platform/internal/config"
	"bikeshare-platform/migrations"
	"bikeshare-platform/pkg/database"
	"bikeshare-platform/pkg/logging"
	"bikeshare-platform/pkg/metrics"
)

func main() {
	var direction string

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Create or drop the bike_trips schema",
		Version:      app.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), direction)
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "up", "Migration direction: up or down")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, direction string) error {
	names, err := migrations.Files(direction)
	if err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewStructuredLogger("bikeshare-migrate", app.Version, logging.ParseLevel(cfg.Logging.Level))
	metricsCollector := metrics.NewCollector("bikeshare_migrate", prometheus.NewRegistry())

	// Connect to database
	db, err := database.NewPostgresDB(ctx, &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, logger, metricsCollector)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Connected to database successfully")

	for _, name := range names {
		content, err := migrations.Read(name)
		if err != nil {
			return err
		}

		fmt.Printf("Running migration: %s\n", name)

		if _, err := db.ExecContext(ctx, "migration", content); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}

	fmt.Println("Migration completed successfully")
	return nil
}
