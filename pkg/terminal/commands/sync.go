package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/services/source"
	"github.com/de-tools/salespulse/pkg/services/workflow"
	"github.com/spf13/cobra"
)

// NamedSourceOpener opens an arbitrary profile by name.
type NamedSourceOpener func(ctx context.Context, name string) (*source.Source, error)

type SyncCmd struct {
	from        string
	batchMonths int
	open        SourceOpener
	openNamed   NamedSourceOpener
}

func NewSyncCmd(open SourceOpener, openNamed NamedSourceOpener) *cobra.Command {
	sc := &SyncCmd{open: open, openNamed: openNamed}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy new sales records from a remote profile into the local DuckDB profile",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.from, "from", "", "Profile to copy records from")
	cmd.Flags().IntVar(&sc.batchMonths, "batch-months", 3, "Months copied per transaction")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func (sc *SyncCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	target, err := sc.open(ctx)
	if err != nil {
		return err
	}
	defer target.Close()
	if target.Profile.Type != domain.SourceTypeDuckDB {
		return fmt.Errorf("sync target must be a %s profile, got %s", domain.SourceTypeDuckDB, target.Profile)
	}

	src, err := sc.openNamed(ctx, sc.from)
	if err != nil {
		return err
	}
	defer src.Close()

	runner := workflow.NewRunner(src.Store, target.Store, target.DB, workflow.RunnerConfig{BatchMonths: sc.batchMonths})
	errs := make(chan error, 1)
	go func() {
		errs <- runner.Run(ctx)
	}()

	out := cmd.OutOrStdout()
	var copied int64
	for p := range runner.Progress() {
		copied = p.ProcessedRecords
		fmt.Fprintf(out, "Synced %d/%d records up to %s\n",
			p.ProcessedRecords, p.TotalRecords, p.LastProcessedAt.Format("2006-01"))
	}
	if err := <-errs; err != nil {
		return fmt.Errorf("sync %s into %s: %w", src.Profile, target.Profile, err)
	}

	fmt.Fprintf(out, "Copied %d records from %s into %s\n", copied, src.Profile, target.Profile)
	return nil
}
