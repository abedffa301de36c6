package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnnynv/gitea-bridge/internal/api"
	"github.com/johnnynv/gitea-bridge/internal/runtime"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Gitea Bridge HTTP service",
	Long: `Start the Gitea Bridge HTTP service with the specified configuration.
This command starts the request journal, the upstream client and the API
server, and shuts them down gracefully on SIGINT or SIGTERM.`,
	RunE: runBridge,
}

var (
	runPort       int
	runNoJournal  bool
	runJournalDSN string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runPort, "port", "p", 0, "listen port (overrides config and PORT)")
	runCmd.Flags().BoolVar(&runNoJournal, "no-journal", false, "disable the request journal")
	runCmd.Flags().StringVar(&runJournalDSN, "journal-path", "", "SQLite journal path (overrides config)")
}

func runBridge(cmd *cobra.Command, args []string) error {
	configManager, cfg, err := loadConfiguration()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if runPort > 0 {
		cfg.App.ListenPort = runPort
	}
	if runNoJournal {
		cfg.Storage.Enabled = false
	}
	if runJournalDSN != "" {
		cfg.Storage.SQLite.Path = runJournalDSN
	}

	loggerManager, err := logger.NewManager(configManager.GetLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logger manager: %w", err)
	}
	defer loggerManager.Close()

	ctx := logger.WithContext(cmd.Context(), logger.LogContext{
		Component: "app",
		Module:    "startup",
		Operation: "run",
	})
	startupLogger := loggerManager.WithGoContext(ctx)

	startupLogger.WithFields(logger.Fields{
		"config":   configManager.GetConfigPath(),
		"port":     cfg.App.ListenPort,
		"upstream": cfg.Upstream.BaseURL,
		"journal":  cfg.Storage.Enabled,
		"version":  api.GetVersion().String(),
	}).Info("Starting Gitea Bridge")

	rt, err := runtime.NewDefaultRuntimeFactory(loggerManager).CreateRuntime(cfg)
	if err != nil {
		return fmt.Errorf("failed to create runtime: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil {
		startupLogger.WithError(err).Error("Gitea Bridge stopped with error")
		return err
	}

	startupLogger.Info("Gitea Bridge stopped successfully")
	return nil
}
