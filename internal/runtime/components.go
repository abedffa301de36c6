package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/johnnynv/gitea-bridge/internal/config"
	"github.com/johnnynv/gitea-bridge/internal/storage"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
)

// DefaultRetentionInterval is how often the journal is pruned
const DefaultRetentionInterval = time.Hour

// BaseComponent provides common functionality for all components
type BaseComponent struct {
	name      string
	logger    *logger.Entry
	mu        sync.RWMutex
	state     ComponentState
	startedAt time.Time
	lastError string
}

func (c *BaseComponent) init(name string, parentLogger *logger.Entry) {
	c.name = name
	c.logger = parentLogger.WithField("component", name)
	c.state = ComponentStateUnknown
}

// GetName implements Component.GetName
func (c *BaseComponent) GetName() string {
	return c.name
}

// GetStatus implements Component.GetStatus
func (c *BaseComponent) GetStatus() ComponentStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := ComponentStatus{
		Name:      c.name,
		State:     c.state,
		Health:    HealthStateUnknown,
		LastError: c.lastError,
	}

	if !c.startedAt.IsZero() {
		status.StartedAt = c.startedAt
		status.Uptime = time.Since(c.startedAt)
	}

	switch c.state {
	case ComponentStateRunning:
		status.Health = HealthStateHealthy
	case ComponentStateError:
		status.Health = HealthStateUnhealthy
	}

	return status
}

// markStarting records the start time and moves to starting
func (c *BaseComponent) markStarting() {
	c.mu.Lock()
	c.startedAt = time.Now()
	c.mu.Unlock()
	c.setState(ComponentStateStarting)
}

// setState updates the component state
func (c *BaseComponent) setState(state ComponentState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()

	c.logger.WithFields(logger.Fields{
		"operation": "state_change",
		"new_state": string(state),
	}).Debug("Component state changed")
}

// setError sets the last error and updates state
func (c *BaseComponent) setError(err error) {
	c.mu.Lock()
	c.lastError = err.Error()
	c.mu.Unlock()
	c.setState(ComponentStateError)

	c.logger.WithFields(logger.Fields{
		"operation": "error",
		"error":     err.Error(),
	}).Error("Component error occurred")
}

func (c *BaseComponent) uptime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.startedAt)
}

// ConfigComponent exposes the loaded configuration as a component
type ConfigComponent struct {
	BaseComponent
	manager *config.Manager
}

// NewConfigComponent creates a new ConfigComponent
func NewConfigComponent(manager *config.Manager, parentLogger *logger.Entry) *ConfigComponent {
	c := &ConfigComponent{manager: manager}
	c.init("config", parentLogger)
	return c
}

// Start implements Component.Start
func (c *ConfigComponent) Start(ctx context.Context) error {
	c.markStarting()

	if err := c.Health(ctx); err != nil {
		c.setError(err)
		return err
	}

	c.setState(ComponentStateRunning)
	c.logger.WithFields(logger.Fields{
		"operation":   "start",
		"config_path": c.manager.GetConfigPath(),
	}).Info("Configuration component started successfully")

	return nil
}

// Stop implements Component.Stop
func (c *ConfigComponent) Stop(ctx context.Context) error {
	c.setState(ComponentStateStopped)
	return nil
}

// Health implements Component.Health
func (c *ConfigComponent) Health(ctx context.Context) error {
	if c.manager.Get() == nil {
		return fmt.Errorf("configuration not loaded")
	}
	return nil
}

// StorageComponent owns the request journal and prunes it past the retention window
type StorageComponent struct {
	BaseComponent
	storage   storage.Storage
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

// StorageOption customises a StorageComponent
type StorageOption func(*StorageComponent)

// WithRetentionInterval overrides how often the journal is pruned
func WithRetentionInterval(d time.Duration) StorageOption {
	return func(c *StorageComponent) {
		c.interval = d
	}
}

// WithStorageClock overrides the clock used to compute the retention cutoff
func WithStorageClock(now func() time.Time) StorageOption {
	return func(c *StorageComponent) {
		c.now = now
	}
}

// NewStorageComponent creates a new StorageComponent. A zero retention keeps events forever.
func NewStorageComponent(store storage.Storage, retention time.Duration, parentLogger *logger.Entry, opts ...StorageOption) *StorageComponent {
	c := &StorageComponent{
		storage:   store,
		retention: retention,
		interval:  DefaultRetentionInterval,
		now:       time.Now,
	}
	c.init("storage", parentLogger)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start implements Component.Start
func (c *StorageComponent) Start(ctx context.Context) error {
	c.markStarting()

	c.logger.WithFields(logger.Fields{
		"operation": "start",
	}).Info("Starting storage component")

	if err := c.storage.Initialize(ctx); err != nil {
		c.setError(err)
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := c.storage.HealthCheck(ctx); err != nil {
		c.setError(err)
		return err
	}

	c.setState(ComponentStateRunning)

	c.logger.WithFields(logger.Fields{
		"operation": "start",
		"duration":  c.uptime(),
		"retention": c.retention.String(),
	}).Info("Storage component started successfully")

	return nil
}

// Run prunes the journal once, then on every interval, until ctx is done
func (c *StorageComponent) Run(ctx context.Context) error {
	if c.retention <= 0 {
		return nil
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		c.prune(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// prune deletes events older than the retention window. Failures are logged
// and retried on the next tick.
func (c *StorageComponent) prune(ctx context.Context) {
	cutoff := c.now().Add(-c.retention)

	deleted, err := c.storage.DeleteOldEvents(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.WithFields(logger.Fields{
				"operation": "prune",
				"cutoff":    cutoff,
			}).WithError(err).Warn("Failed to prune journal")
		}
		return
	}

	entry := c.logger.WithFields(logger.Fields{
		"operation": "prune",
		"cutoff":    cutoff,
		"deleted":   deleted,
	})
	if deleted > 0 {
		entry.Info("Pruned journal")
		return
	}
	entry.Debug("Nothing to prune")
}

// Stop implements Component.Stop
func (c *StorageComponent) Stop(ctx context.Context) error {
	c.setState(ComponentStateStopping)

	if err := c.storage.Close(); err != nil {
		c.logger.WithFields(logger.Fields{
			"operation": "stop",
			"error":     err.Error(),
		}).Error("Error closing storage")
	}

	c.setState(ComponentStateStopped)

	c.logger.WithFields(logger.Fields{
		"operation": "stop",
	}).Info("Storage component stopped successfully")

	return nil
}

// Health implements Component.Health
func (c *StorageComponent) Health(ctx context.Context) error {
	return c.storage.HealthCheck(ctx)
}

// Storage returns the underlying journal
func (c *StorageComponent) Storage() storage.Storage {
	return c.storage
}
