package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docforge/studio/pkg/cli"
	"docforge/studio/pkg/config"
	"docforge/studio/pkg/server"
)

var runFlags struct {
	host     string
	port     int
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the DocForge server",
	Long: `Start the DocForge editor server with the specified configuration.

Configuration is read from the YAML file, the dotenv file and the process
environment, in that order of increasing precedence. OPENAI_API_KEY must
be set.

Examples:
  # Start with default config
  docforge run

  # Start with custom config
  docforge run --config /etc/docforge/config.yaml

  # Override listen port
  docforge run --port 8080

  # Validate config and wiring without starting the server
  docforge run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.host, "host", "", "override bind host")
	runCmd.Flags().IntVarP(&runFlags.port, "port", "p", 0, "override bind port")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFiles(cfgFile, envFile)
	if err != nil {
		return nil, cli.ConfigErrorFrom(err)
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.host != "" {
		cfg.Server.Host = runFlags.host
	}
	if runFlags.port != 0 {
		cfg.Server.Port = runFlags.port
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.ConfigErrorFrom(err)
	}

	app, err := newApp(cfg, cmd.OutOrStdout())
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			app.Logger.Error("shutdown cleanup failed", "error", err)
		}
	}()

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	srv := server.New(&cfg.Server, app.Handler, app.Logger)
	if err := srv.Listen(); err != nil {
		return cli.NewCommandError("run", err)
	}

	if err := app.Start(ctx); err != nil {
		_ = srv.Shutdown(context.Background())
		return cli.NewCommandError("run", err)
	}

	app.Logger.Info("docforge started",
		"version", Version,
		"address", srv.Addr(),
		"graph_backend", cfg.Graph.Backend,
		"debug", cfg.Server.Debug,
	)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}
