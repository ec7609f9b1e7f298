package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/store/duckdb"
	"github.com/de-tools/salespulse/pkg/store/objectstore"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	file       string
	awsProfile string
	open       SourceOpener
	s3         objectstore.ClientFactory
}

func NewImportCmd(open SourceOpener, s3 objectstore.ClientFactory) *cobra.Command {
	ic := &ImportCmd{open: open, s3: s3}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a CSV of sales records into a DuckDB profile",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.file, "file", "", "Path or s3://bucket/key of a headered CSV file")
	cmd.Flags().StringVar(&ic.awsProfile, "aws-profile", "", "Shared AWS config profile for s3:// files")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src, err := ic.open(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	if src.Profile.Type != domain.SourceTypeDuckDB {
		return fmt.Errorf("import is only supported for %s profiles, got %s", domain.SourceTypeDuckDB, src.Profile)
	}

	path, cleanup, err := ic.localFile(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var n int64
	err = duckdb.RunInTx(ctx, src.DB, func(ctx context.Context) error {
		var err error
		n, err = duckdb.ImportCSV(ctx, src.DB, path)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records from %s\n", n, ic.file)
	return nil
}

// localFile resolves --file to a path DuckDB can read, downloading s3://
// objects to a temporary file first.
func (ic *ImportCmd) localFile(ctx context.Context) (string, func(), error) {
	loc, remote, err := objectstore.ParseURI(ic.file)
	if err != nil {
		return "", nil, err
	}
	if !remote {
		return ic.file, func() {}, nil
	}

	client, err := ic.s3(ctx, ic.awsProfile)
	if err != nil {
		return "", nil, err
	}
	path, err := objectstore.Download(ctx, client, loc, "")
	if err != nil {
		return "", nil, err
	}
	return path, func() { os.Remove(path) }, nil
}
