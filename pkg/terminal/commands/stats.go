package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewStatsCmd(open SourceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the number of records and the covered period",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			src, err := open(ctx)
			if err != nil {
				return err
			}
			defer src.Close()

			stats, err := src.Store.GetStats(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Profile: %s\nRecords: %d\n", src.Profile, stats.RecordsCount)
			if stats.FirstPeriod != nil && stats.LastPeriod != nil {
				fmt.Fprintf(out, "Period: %s to %s\n",
					stats.FirstPeriod.Format("2006-01"), stats.LastPeriod.Format("2006-01"))
			}
			return nil
		},
	}
}
