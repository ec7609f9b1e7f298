package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/de-tools/salespulse/pkg/runtime/plot"
	"github.com/de-tools/salespulse/pkg/runtime/tracing"
	"github.com/de-tools/salespulse/pkg/server"
	"github.com/de-tools/salespulse/pkg/services/composer"
	"github.com/de-tools/salespulse/pkg/services/config"
	"github.com/de-tools/salespulse/pkg/services/dataset"
	"github.com/de-tools/salespulse/pkg/services/session"
	"github.com/de-tools/salespulse/pkg/services/source"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	profilesPath string
	profileName  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the sales dashboard",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to the YAML application config")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", "", "Path to the dataset profiles INI file (overrides config)")
	rootCmd.Flags().StringVar(&profileName, "profile", "", "Dataset profile to serve (overrides config)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	appCfg, err := config.LoadAppConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if profilesPath != "" {
		appCfg.Profiles.Path = profilesPath
	}
	if profileName != "" {
		appCfg.Profiles.Default = profileName
	}

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Endpoint:    appCfg.Tracing.Endpoint,
		ServiceName: appCfg.Tracing.ServiceName,
		Insecure:    appCfg.Tracing.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to flush traces")
		}
	}()

	registry, err := config.NewRegistry(appCfg.Profiles.Path)
	if err != nil {
		return fmt.Errorf("failed to create profile registry: %w", err)
	}

	logger.Info().Msgf("Profiles found at `%s` successfully loaded.", appCfg.Profiles.Path)
	profiles, err := registry.GetProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to read profiles: %w", err)
	}
	for _, p := range profiles {
		logger.Info().Msgf("Name: `%s`, Type: `%s`", p.Name, p.Type)
	}

	src, err := source.Open(ctx, registry, appCfg.Profiles.Default)
	if err != nil {
		return fmt.Errorf("failed to open profile %s: %w", appCfg.Profiles.Default, err)
	}
	defer src.Close()

	manager := session.NewManager(
		dataset.NewStoreLoader(src.Store),
		composer.New(composer.Options{Currency: appCfg.Dashboard.Currency}),
		session.Options{
			TTL:               appCfg.Session.TTL,
			MaxRenderAttempts: appCfg.Session.MaxRenderAttempts,
		},
	)

	host := appCfg.Server.Host
	port := appCfg.Server.Port
	if v := os.Getenv("SERVER_HOST"); v != "" {
		host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port = v
	}

	api := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(host, port),
		ShutdownTimeout: appCfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Sessions: manager,
			Charts:   plot.NewRenderer(800, 400),
			Logger:   logger,
		},
	})
	return api.Start()
}
