package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
	"github.com/johnnynv/gitea-bridge/pkg/utils"
)

// Manager manages application configuration
type Manager struct {
	config    *types.Config
	loader    *Loader
	validator *Validator
	logger    *logger.Logger
	mu        sync.RWMutex

	configPath string
}

// NewManager creates a new configuration manager
func NewManager(logger *logger.Logger) *Manager {
	return &Manager{
		loader:    NewLoader(),
		validator: NewValidator(),
		logger:    logger,
	}
}

// Load reads configPath, which must exist, then applies environment overrides and validates
func (m *Manager) Load(configPath string) error {
	config, err := m.loader.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return m.install(config, configPath)
}

// LoadWithDefaults behaves like Load but falls back to built-in defaults when the file is absent
func (m *Manager) LoadWithDefaults(configPath string) error {
	config, err := m.loader.LoadWithDefaults(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration with defaults: %w", err)
	}
	return m.install(config, configPath)
}

func (m *Manager) install(config *types.Config, configPath string) error {
	m.logger.WithComponent("config").
		WithField("path", configPath).
		Info("Loading configuration")

	if err := ApplyEnvironment(config); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if refs := utils.UnresolvedRefs(config.Upstream.Token); len(refs) > 0 {
		m.logger.WithComponent("config").
			WithField("variables", refs).
			Warn("Upstream token references unset or disallowed environment variables")
	}

	if err := m.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if config.Storage.Enabled {
		if err := ensureDataDirectory(filepath.Dir(config.Storage.SQLite.Path)); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	m.mu.Lock()
	m.config = config
	m.configPath = configPath
	m.mu.Unlock()

	m.logger.WithComponent("config").
		WithFields(logger.Fields{
			"upstream":        config.Upstream.BaseURL,
			"repository":      config.Upstream.Owner + "/" + config.Upstream.Repo,
			"authenticated":   config.Upstream.Token != "",
			"journal_enabled": config.Storage.Enabled,
		}).
		Info("Configuration loaded successfully")

	return nil
}

// Get returns a copy of the current configuration
func (m *Manager) Get() *types.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return nil
	}

	configCopy := *m.config
	configCopy.Security.AllowedEnvVars = append([]string(nil), m.config.Security.AllowedEnvVars...)
	return &configCopy
}

// Validate validates a configuration file without installing it
func (m *Manager) Validate(configPath string) error {
	config, err := m.loader.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration for validation: %w", err)
	}
	if err := ApplyEnvironment(config); err != nil {
		return err
	}

	return m.validator.Validate(config)
}

// GetConfigPath returns the current configuration file path
func (m *Manager) GetConfigPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configPath
}

// SetConfig sets the configuration directly (for runtime initialization)
func (m *Manager) SetConfig(config *types.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = config

	m.logger.WithComponent("config").
		Debug("Configuration set programmatically")
}

// GetLoggerConfig returns logger configuration
func (m *Manager) GetLoggerConfig() logger.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return logger.DefaultConfig()
	}
	return logger.FromAppConfig(m.config.App)
}

func ensureDataDirectory(dir string) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return err
	}

	testFile := filepath.Join(absPath, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("data directory is not writable: %w", err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
