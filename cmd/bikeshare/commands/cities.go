package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"bikeshare-platform/internal/config"
	"bikeshare-platform/internal/display"
)

func newCitiesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the cities with trip data",
		Long: `List the cities in the catalog and the dataset each one reads.

Examples:
  bikeshare cities
  bikeshare cities --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cities := a.Datasets.Cities()
			out := cmd.OutOrStdout()

			if opts.jsonOutput {
				return writeJSON(out, map[string]interface{}{
					"source": a.Datasets.Source(),
					"cities": cities,
				})
			}

			for _, city := range cities {
				location := city.File
				if a.Datasets.Source() == config.SourceCSV {
					location = filepath.Join(a.Config.Data.Dir, city.File)
				}
				fmt.Fprintf(out, "%-16s %s\n", display.Title(city.ID), location)
			}
			return nil
		},
	}
}
