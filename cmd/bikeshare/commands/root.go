package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"bikeshare-platform/internal/app"
	"bikeshare-platform/internal/config"
	"bikeshare-platform/internal/display"
	"bikeshare-platform/pkg/logging"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	dataDir    string
	source     string
	strict     bool
	verbose    bool
	jsonOutput bool
}

// NewRootCmd builds the bikeshare command tree
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "bikeshare",
		Short: "Bikeshare - trip statistics for US bike-share systems",
		Long: `Bikeshare explores trip data from US bike-share systems.

It loads the trips of a city, derives calendar and generation attributes,
and reports popular times, stations, trip durations and user statistics,
optionally restricted to a set of months and weekdays.

Configuration is read from .env and the environment (BIKESHARE_DATA_DIR,
BIKESHARE_SOURCE, DB_*); flags take precedence.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory holding the city CSV files")
	rootCmd.PersistentFlags().StringVar(&opts.source, "source", "", "Trip source: csv or postgres")
	rootCmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "Fail on the first malformed record instead of skipping it")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		newCitiesCmd(opts),
		newReportCmd(opts),
		newBrowseCmd(opts),
	)

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, display.RenderError(err))
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and wires the services.
// CLI logs go to stderr and only warnings are shown unless --verbose is set.
func (o *globalOptions) setup(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.Data.Dir = o.dataDir
	}
	if flags.Changed("source") {
		cfg.Data.Source = o.source
	}
	if flags.Changed("strict") {
		cfg.Data.StrictParse = o.strict
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := logging.WarnLevel
	if o.verbose {
		level = logging.DebugLevel
	}

	return app.New(ctx, cfg, app.Options{
		Service:    "bikeshare-cli",
		LogOutput:  cmd.ErrOrStderr(),
		LogLevel:   &level,
		Registerer: prometheus.NewRegistry(),
	})
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
