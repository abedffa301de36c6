package runtime

import (
	"fmt"

	"github.com/johnnynv/gitea-bridge/internal/config"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// DefaultRuntimeFactory implements RuntimeFactory
type DefaultRuntimeFactory struct {
	logs *logger.Manager
}

// NewDefaultRuntimeFactory creates a new DefaultRuntimeFactory
func NewDefaultRuntimeFactory(logs *logger.Manager) *DefaultRuntimeFactory {
	return &DefaultRuntimeFactory{logs: logs}
}

// CreateRuntime implements RuntimeFactory.CreateRuntime
func (f *DefaultRuntimeFactory) CreateRuntime(cfg *types.Config) (Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := validateRuntimeConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid runtime configuration: %w", err)
	}

	configManager := config.NewManager(f.logs.GetRootLogger())
	configManager.SetConfig(cfg)

	runtime, err := NewRuntimeManager(configManager, f.logs)
	if err != nil {
		return nil, fmt.Errorf("failed to create runtime manager: %w", err)
	}

	return runtime, nil
}

// validateRuntimeConfig checks what the runtime needs to wire itself
func validateRuntimeConfig(cfg *types.Config) error {
	if cfg.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	// 0 asks the kernel for a free port.
	if cfg.App.ListenPort < 0 || cfg.App.ListenPort > 65535 {
		return fmt.Errorf("app.listen_port must be between 0 and 65535")
	}

	if cfg.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}

	if cfg.Upstream.Owner == "" || cfg.Upstream.Repo == "" {
		return fmt.Errorf("upstream.owner and upstream.repo are required")
	}

	if cfg.Storage.Enabled && cfg.Storage.Type == "" {
		return fmt.Errorf("storage.type is required when storage is enabled")
	}

	return nil
}
