package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/salespulse/pkg/runtime/terminal/export"
	"github.com/de-tools/salespulse/pkg/services/config"
	"github.com/de-tools/salespulse/pkg/services/source"
	"github.com/de-tools/salespulse/pkg/store/objectstore"
	"github.com/de-tools/salespulse/pkg/terminal/commands"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	reporter     *export.Reporter
	rootCmd      *cobra.Command
	logger       zerolog.Logger
	profilesPath string
	profile      string
	s3           objectstore.ClientFactory
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Logger *zerolog.Logger
	// S3 builds the client for s3:// imports. Defaults to objectstore.NewS3Client.
	S3     objectstore.ClientFactory
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	if opts.S3 == nil {
		opts.S3 = objectstore.NewS3Client
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
		logger:   logger,
		s3:       opts.S3,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(cli.logger.WithContext(ctx))
}

// SetArgs overrides os.Args for the next Execute call.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "salespulse",
		Short:         "Sales dashboard tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cli.profilesPath, "profiles", "profiles.ini", "Path to the dataset profiles INI file")
	cmd.PersistentFlags().StringVar(&cli.profile, "profile", "local", "Dataset profile name")

	cmd.AddCommand(commands.NewSeedCmd(cli.openSource))
	cmd.AddCommand(commands.NewImportCmd(cli.openSource, cli.s3))
	cmd.AddCommand(commands.NewStatsCmd(cli.openSource))
	cmd.AddCommand(commands.NewSyncCmd(cli.openSource, cli.openNamedSource))
	cmd.AddCommand(commands.NewRenderCmd(cli.openSource, cli.reporter))
	cmd.AddCommand(commands.NewFiltersCmd(cli.reporter))

	return cmd
}

func (cli *CLI) openSource(ctx context.Context) (*source.Source, error) {
	return cli.openNamedSource(ctx, cli.profile)
}

func (cli *CLI) openNamedSource(ctx context.Context, name string) (*source.Source, error) {
	registry, err := config.NewRegistry(cli.profilesPath)
	if err != nil {
		return nil, err
	}
	return source.Open(ctx, registry, name)
}
