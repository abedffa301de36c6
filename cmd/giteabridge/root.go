package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/johnnynv/gitea-bridge/internal/config"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
)

var (
	globalConfigFile string
	globalEnvFile    string
	globalLogLevel   string
	globalLogFormat  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "giteabridge",
	Short: "Gitea Bridge - repository metadata aggregator",
	Long: `Gitea Bridge reads repository metadata, commits, branches and issues from a
Gitea instance and serves them over HTTP in a stable shape, together with
per-author development statistics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(globalEnvFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalConfigFile, "config", "config.yaml", "config file; built-in defaults apply when it is absent")
	rootCmd.PersistentFlags().StringVar(&globalEnvFile, "env-file", ".env", "dotenv file loaded before the configuration")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "json", "log format (json, text)")

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("BRIDGE") // BRIDGE_LOG_FORMAT, ...
	viper.AutomaticEnv()
}

// loadEnvFile loads a dotenv file. Variables already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// loadConfiguration reads the config file (or defaults), applies environment
// overrides and then explicit CLI flags, in that order of precedence.
func loadConfiguration() (*config.Manager, *types.Config, error) {
	bootstrap := logger.NewLoggerWithWriter(logger.Config{Level: "warn", Format: globalLogFormat}, os.Stderr)

	manager := config.NewManager(bootstrap)
	if err := manager.LoadWithDefaults(globalConfigFile); err != nil {
		return nil, nil, err
	}

	cfg := manager.Get()
	if viper.IsSet("log_level") {
		cfg.App.LogLevel = viper.GetString("log_level")
	}
	if viper.IsSet("log_format") {
		cfg.App.LogFormat = viper.GetString("log_format")
	}
	manager.SetConfig(cfg)

	return manager, cfg, nil
}
