package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bikeshare-platform/internal/display"
	"bikeshare-platform/internal/enrich"
	"bikeshare-platform/internal/models"
	"bikeshare-platform/internal/services"
)

// reportOutput is the --json document of the report command
type reportOutput struct {
	Load     *models.LoadReport `json:"load"`
	Overview *models.Overview   `json:"overview"`
	Report   *models.Report     `json:"report"`
	Trips    []models.Trip      `json:"trips,omitempty"`
}

func newReportCmd(opts *globalOptions) *cobra.Command {
	var (
		months []string
		days   []string
		raw    int
	)

	cmd := &cobra.Command{
		Use:   "report <city>",
		Short: "Show trip statistics for a city",
		Long: `Load the trips of a city and show its statistics.

The overview covers every trip; the report covers the trips matching the
month and day filters. Months and days may be names, abbreviations or
numbers (Monday is day 1), repeated or comma separated.

Examples:
  bikeshare report chicago
  bikeshare report "new york city" --month june --day mon,tue
  bikeshare report washington --month 1,2,3 --raw 10 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := models.Filter{}
			var err error
			if filter.Months, err = enrich.ParseMonths(months); err != nil {
				return fmt.Errorf("invalid --month: %w", err)
			}
			if filter.Days, err = enrich.ParseDays(days); err != nil {
				return fmt.Errorf("invalid --day: %w", err)
			}
			if raw < 0 {
				return fmt.Errorf("invalid --raw %d: must not be negative", raw)
			}

			ctx := cmd.Context()
			a, err := opts.setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			dataset, err := a.Datasets.Load(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			result := reportOutput{
				Load:     dataset.Load,
				Overview: a.Reports.Overview(ctx, dataset.Table),
			}
			if result.Report, err = a.Reports.Build(ctx, dataset.Table, filter); err != nil {
				return err
			}
			if raw > 0 {
				result.Trips = a.Reports.RawTrips(dataset.Table, max(raw, services.MinRawRows))
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, result)
			}

			fmt.Fprintln(out, display.RenderLoad(result.Load))
			fmt.Fprintln(out)
			fmt.Fprintln(out, display.RenderOverview(result.Overview))
			fmt.Fprintln(out, display.RenderReport(result.Report))
			if len(result.Trips) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, display.RenderTrips(dataset.Table.City, result.Trips))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&months, "month", "m", nil, "Months to include (default all)")
	cmd.Flags().StringSliceVarP(&days, "day", "d", nil, "Weekdays to include (default all)")
	cmd.Flags().IntVar(&raw, "raw", 0, "Also show the first N enriched trips (at least 5)")

	return cmd
}
