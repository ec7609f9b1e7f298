package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/salespulse/pkg/services/sample"
	"github.com/de-tools/salespulse/pkg/store/duckdb"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type SeedCmd struct {
	years []int
	seed  int64
	open  SourceOpener
}

func NewSeedCmd(open SourceOpener) *cobra.Command {
	sc := &SeedCmd{open: open}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample sales records into the profile's store",
		RunE:  sc.run,
	}

	cmd.Flags().IntSliceVar(&sc.years, "years", []int{2022, 2023}, "Years to generate")
	cmd.Flags().Int64Var(&sc.seed, "seed", 1, "Random seed")

	return cmd
}

func (sc *SeedCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	src, err := sc.open(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	records := sample.Generate(sample.Options{Years: sc.years, Seed: sc.seed})
	err = duckdb.RunInTx(ctx, src.DB, func(ctx context.Context) error {
		return src.Store.Add(ctx, records)
	})
	if err != nil {
		return fmt.Errorf("failed to seed %s: %w", src.Profile, err)
	}

	logger.Info().Int("records", len(records)).Str("profile", src.Profile.Name).Msg("seeded sample data")
	fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d records into %s\n", len(records), src.Profile)
	return nil
}
