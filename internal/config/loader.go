package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/johnnynv/gitea-bridge/pkg/types"
	"github.com/johnnynv/gitea-bridge/pkg/utils"
)

// Defaults mirror the behaviour of the bridge when no configuration file is given.
const (
	DefaultAppName              = "gitea-bridge"
	DefaultListenPort           = 3001
	DefaultDataDir              = "./data"
	DefaultShutdownTimeout      = 30 * time.Second
	DefaultUpstreamBaseURL      = "https://gitea.cleverapps.io"
	DefaultUpstreamOwner        = "virida"
	DefaultUpstreamRepo         = "virida"
	DefaultUpstreamTimeout      = 30 * time.Second
	DefaultJournalRetention     = 7 * 24 * time.Hour
	DefaultSyncSource           = "virida_ihm"
	DefaultSyncVersion          = "1.0.0"
	DefaultSyncCommitMessage    = "Sync environmental data from virida_ihm"
	defaultDatabaseFile         = "bridge.db"
	defaultSQLiteMaxConnections = 10
	defaultSQLiteConnTimeout    = 30 * time.Second
)

// Loader handles configuration loading and processing
type Loader struct {
	envExpander *utils.EnvExpander
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFromFile loads configuration from a YAML file
func (l *Loader) LoadFromFile(filePath string) (*types.Config, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", filePath)
		}
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer file.Close()

	return l.LoadFromReader(file)
}

// LoadFromReader loads configuration from an io.Reader
func (l *Loader) LoadFromReader(reader io.Reader) (*types.Config, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	return l.LoadFromBytes(content)
}

// LoadFromBytes parses YAML, expands allowed ${VAR} references and applies defaults
func (l *Loader) LoadFromBytes(content []byte) (*types.Config, error) {
	rawConfig := map[string]interface{}{}
	if err := yaml.Unmarshal(content, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if rawConfig == nil {
		rawConfig = map[string]interface{}{}
	}

	securityConfig, err := l.extractSecurityConfig(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to extract security configuration: %w", err)
	}

	l.envExpander = utils.NewEnvExpander(securityConfig.AllowedEnvVars)

	expandedConfig, err := l.envExpander.ExpandMap(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}

	expandedBytes, err := yaml.Marshal(expandedConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expanded configuration: %w", err)
	}

	var config types.Config
	if err := yaml.Unmarshal(expandedBytes, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// The journal is on unless the file switches it off explicitly.
	if !hasKey(rawConfig, "storage", "enabled") {
		config.Storage.Enabled = true
	}

	ApplyDefaults(&config)

	return &config, nil
}

// LoadWithDefaults loads the file when it exists and falls back to the built-in defaults otherwise
func (l *Loader) LoadWithDefaults(filePath string) (*types.Config, error) {
	if filePath != "" {
		if _, err := os.Stat(filePath); err == nil {
			return l.LoadFromFile(filePath)
		}
	}

	return DefaultConfig(), nil
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *types.Config {
	config := &types.Config{Storage: types.StorageConfig{Enabled: true}}
	ApplyDefaults(config)
	return config
}

func (l *Loader) extractSecurityConfig(rawConfig map[string]interface{}) (*types.SecurityConfig, error) {
	securityConfig := &types.SecurityConfig{
		AllowedEnvVars: append([]string(nil), utils.DefaultAllowedEnvVars...),
	}

	if securityRaw, exists := rawConfig["security"]; exists && securityRaw != nil {
		securityBytes, err := yaml.Marshal(securityRaw)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(securityBytes, securityConfig); err != nil {
			return nil, err
		}
	}

	return securityConfig, nil
}

// ApplyDefaults fills zero values with the bridge defaults
func ApplyDefaults(config *types.Config) {
	if config.App.Name == "" {
		config.App.Name = DefaultAppName
	}
	if config.App.LogLevel == "" {
		config.App.LogLevel = "info"
	}
	if config.App.LogFormat == "" {
		config.App.LogFormat = "json"
	}
	if config.App.ListenPort == 0 {
		config.App.ListenPort = DefaultListenPort
	}
	if config.App.DataDir == "" {
		config.App.DataDir = DefaultDataDir
	}
	if config.App.ShutdownTimeout == 0 {
		config.App.ShutdownTimeout = DefaultShutdownTimeout
	}

	if config.Upstream.BaseURL == "" {
		config.Upstream.BaseURL = DefaultUpstreamBaseURL
	}
	if config.Upstream.Owner == "" {
		config.Upstream.Owner = DefaultUpstreamOwner
	}
	if config.Upstream.Repo == "" {
		config.Upstream.Repo = DefaultUpstreamRepo
	}
	if config.Upstream.Timeout == 0 {
		config.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if config.Upstream.RequestsPerSecond > 0 && config.Upstream.Burst == 0 {
		config.Upstream.Burst = 1
	}

	if config.Storage.Type == "" {
		config.Storage.Type = "sqlite"
	}
	if config.Storage.SQLite.Path == "" {
		config.Storage.SQLite.Path = filepath.Join(config.App.DataDir, defaultDatabaseFile)
	}
	if config.Storage.SQLite.MaxConnections == 0 {
		config.Storage.SQLite.MaxConnections = defaultSQLiteMaxConnections
	}
	if config.Storage.SQLite.ConnectionTimeout == 0 {
		config.Storage.SQLite.ConnectionTimeout = defaultSQLiteConnTimeout
	}
	if config.Storage.Retention == 0 {
		config.Storage.Retention = DefaultJournalRetention
	}

	if config.Sync.Source == "" {
		config.Sync.Source = DefaultSyncSource
	}
	if config.Sync.Version == "" {
		config.Sync.Version = DefaultSyncVersion
	}
	if config.Sync.DefaultCommitMessage == "" {
		config.Sync.DefaultCommitMessage = DefaultSyncCommitMessage
	}

	if len(config.Security.AllowedEnvVars) == 0 {
		config.Security.AllowedEnvVars = append([]string(nil), utils.DefaultAllowedEnvVars...)
	}
}

func hasKey(raw map[string]interface{}, path ...string) bool {
	current := raw
	for i, key := range path {
		value, ok := current[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}
