package commands

import (
	"github.com/spf13/cobra"

	"bikeshare-platform/internal/tui"
)

func newBrowseCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse city reports interactively",
		Long: `Open the interactive report browser.

Choose a city, then cycle the month (m/M) and day (d/D) filters; the
report is recomputed for every selection. r reloads the dataset from its
source, esc goes back to the city list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := opts.setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(ctx, a.Datasets, a.Reports)
		},
	}
}
