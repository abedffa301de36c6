package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/johnnynv/gitea-bridge/internal/config"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
	"github.com/johnnynv/gitea-bridge/pkg/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Show the effective configuration, validate configuration files and create new ones",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  "Display the configuration after defaults and environment overrides are applied",
	Args:  cobra.NoArgs,
	RunE:  runShowConfig,
}

var validateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a configuration file",
	Long: `Validate the syntax and content of a configuration file.

This command checks YAML syntax, the upstream URL, port range, log settings,
journal settings and non-negative limits. Environment overrides are applied
before validation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var initCmd = &cobra.Command{
	Use:   "init [config-file]",
	Short: "Initialize a new configuration file",
	Long:  "Create a configuration file with the default values",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInitConfig,
}

var (
	showFormat     string
	showSecrets    bool
	validateFormat string
	initForce      bool
	initPrompt     bool
)

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "yaml", "Output format (yaml, json)")
	showCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Show the upstream token")

	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "Output format (text, json)")

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration file")
	initCmd.Flags().BoolVar(&initPrompt, "prompt-token", false, "Ask for the Gitea token and store it in the env file")

	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
	configCmd.AddCommand(initCmd)

	rootCmd.AddCommand(configCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfiguration()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if !showSecrets {
		cfg = maskSensitiveData(cfg)
	}

	out := cmd.OutOrStdout()
	switch showFormat {
	case "json":
		// Token is tagged json:"-"; expose the masked form explicitly.
		return writeJSON(out, struct {
			*types.Config
			UpstreamToken string `json:"upstream_token,omitempty"`
		}{cfg, cfg.Upstream.Token})

	case "yaml":
		yamlBytes, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = out.Write(yamlBytes)
		return err

	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", showFormat)
	}
}

func maskSensitiveData(cfg *types.Config) *types.Config {
	result := *cfg
	result.Upstream.Token = utils.MaskSecret(cfg.Upstream.Token)
	return &result
}

// validationResult is the JSON shape of config validate
type validationResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := globalConfigFile
	if len(args) > 0 {
		configFile = args[0]
	}

	if _, err := os.Stat(configFile); err != nil {
		return fmt.Errorf("configuration file does not exist: %s", configFile)
	}

	quiet := logger.NewLoggerWithWriter(logger.Config{Level: "error"}, io.Discard)
	err := config.NewManager(quiet).Validate(configFile)

	result := validationResult{File: configFile, Valid: err == nil}
	if err != nil {
		var validationErrs config.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, e := range validationErrs {
				result.Errors = append(result.Errors, e.Error())
			}
		} else {
			result.Errors = []string{err.Error()}
		}
	}

	out := cmd.OutOrStdout()
	if validateFormat == "json" {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(out, "Configuration is valid: %s\n", configFile)
	} else {
		fmt.Fprintf(out, "Configuration validation FAILED: %s\n", configFile)
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}

	if !result.Valid {
		return fmt.Errorf("configuration is invalid")
	}
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	configFile := globalConfigFile
	if len(args) > 0 {
		configFile = args[0]
	}

	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configFile)
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	yamlBytes, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(configFile, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration file created: %s\n", configFile)

	if initPrompt {
		token, err := readSensitiveInput(cmd, "Gitea API token: ")
		if err != nil {
			return err
		}
		if token != "" {
			if err := storeToken(globalEnvFile, token); err != nil {
				return err
			}
			fmt.Fprintf(out, "Token stored in %s as GITEA_TOKEN\n", globalEnvFile)
		}
	}

	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "  1. Edit upstream.base_url, owner and repo in %s\n", configFile)
	fmt.Fprintf(out, "  2. Validate: giteabridge config validate %s\n", configFile)
	fmt.Fprintf(out, "  3. Start:    giteabridge run --config %s\n", configFile)

	return nil
}

// readSensitiveInput reads a secret without echo when stdin is a terminal
func readSensitiveInput(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("error reading input: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// storeToken sets GITEA_TOKEN in the dotenv file, keeping its other entries
func storeToken(path, token string) error {
	env := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		existing, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		env = existing
	}
	env["GITEA_TOKEN"] = token

	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("failed to write env file %s: %w", path, err)
	}
	return os.Chmod(path, 0600)
}
