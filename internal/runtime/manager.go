package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/johnnynv/gitea-bridge/internal/api"
	"github.com/johnnynv/gitea-bridge/internal/bridge"
	"github.com/johnnynv/gitea-bridge/internal/config"
	"github.com/johnnynv/gitea-bridge/internal/gitea"
	"github.com/johnnynv/gitea-bridge/internal/metrics"
	"github.com/johnnynv/gitea-bridge/internal/storage"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// defaultShutdownTimeout bounds Stop when the config leaves it unset
const defaultShutdownTimeout = 30 * time.Second

// RuntimeManager implements the Runtime interface
type RuntimeManager struct {
	config    *types.Config
	logs      *logger.Manager
	logger    *logger.Entry
	startedAt time.Time
	state     RuntimeState
	mu        sync.RWMutex

	// Core components
	configManager *config.Manager
	storage       storage.Storage
	client        *gitea.Client
	metrics       *metrics.Collector
	service       *bridge.Service
	server        *api.Server

	// Component management
	components     map[string]Component
	componentOrder []string // Start order
}

// NewRuntimeManager wires the bridge from the loaded configuration
func NewRuntimeManager(configManager *config.Manager, logs *logger.Manager) (*RuntimeManager, error) {
	if configManager == nil {
		return nil, fmt.Errorf("config manager cannot be nil")
	}
	cfg := configManager.Get()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	if logs == nil {
		return nil, fmt.Errorf("logger manager cannot be nil")
	}

	rm := &RuntimeManager{
		config:         cfg,
		logs:           logs,
		logger:         logs.ForModule("runtime", "manager"),
		state:          RuntimeStateUnknown,
		configManager:  configManager,
		components:     make(map[string]Component),
		componentOrder: []string{},
	}

	if err := rm.initializeComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	return rm, nil
}

// initializeComponents initializes all components in dependency order
func (rm *RuntimeManager) initializeComponents() error {
	var err error

	// 1. Configuration
	rm.addComponent(NewConfigComponent(rm.configManager, rm.logger))

	// 2. Metrics
	rm.metrics, err = metrics.NewCollector()
	if err != nil {
		return fmt.Errorf("failed to create metrics collector: %w", err)
	}

	// 3. Upstream client
	upstream := rm.config.Upstream
	if upstream.UserAgent == "" {
		upstream.UserAgent = api.UserAgent()
	}
	rm.client, err = gitea.NewClient(gitea.ClientConfig{
		BaseURL:   upstream.BaseURL,
		Token:     upstream.Token,
		Owner:     upstream.Owner,
		Repo:      upstream.Repo,
		Timeout:   upstream.Timeout,
		UserAgent: upstream.UserAgent,
	}, rm.logs.ForComponent("gitea"),
		gitea.WithRateLimiter(gitea.NewRateLimiter(upstream.RequestsPerSecond, upstream.Burst)),
		gitea.WithObserver(rm.metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	// 4. Journal (optional)
	serviceOpts := []bridge.Option{bridge.WithRecorder(rm.metrics)}
	serverOpts := []api.ServerOption{
		api.WithMetrics(rm.metrics),
		api.WithUpstreamProber(rm.client),
	}
	if rm.config.Storage.Enabled {
		rm.storage, err = storage.NewFactory().Create(&rm.config.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage: %w", err)
		}
		rm.addComponent(NewStorageComponent(rm.storage, rm.config.Storage.Retention, rm.logger))

		serviceOpts = append(serviceOpts, bridge.WithJournal(rm.storage))
		serverOpts = append(serverOpts, api.WithStorage(rm.storage))
	}

	// 5. Aggregation service
	rm.service = bridge.NewService(rm.client, rm.config.Sync, rm.logs, serviceOpts...)

	// 6. API server
	rm.server, err = api.NewServer(api.ServerConfig{
		Port:        rm.config.App.ListenPort,
		UpstreamURL: rm.client.BaseURL(),
	}, rm.service, rm.logs.ForComponent("api"), serverOpts...)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}
	rm.addComponent(NewAPIComponent(rm.server, rm, rm.logger))

	rm.logger.WithFields(logger.Fields{
		"operation":       "initialize_components",
		"component_count": len(rm.components),
		"component_order": rm.componentOrder,
	}).Info("Successfully initialized all runtime components")

	return nil
}

// addComponent adds a component to the runtime in startup order
func (rm *RuntimeManager) addComponent(component Component) {
	name := component.GetName()
	rm.components[name] = component
	rm.componentOrder = append(rm.componentOrder, name)
}

// Start implements Runtime.Start
func (rm *RuntimeManager) Start(ctx context.Context) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.state == RuntimeStateRunning {
		return fmt.Errorf("runtime is already running")
	}

	rm.logger.WithFields(logger.Fields{
		"operation":  "start",
		"components": len(rm.components),
		"upstream":   rm.client.BaseURL(),
	}).Info("Starting gitea-bridge runtime")

	rm.state = RuntimeStateStarting
	rm.startedAt = time.Now()

	for i, name := range rm.componentOrder {
		component := rm.components[name]

		if err := component.Start(ctx); err != nil {
			rm.state = RuntimeStateError
			rm.logger.WithFields(logger.Fields{
				"operation": "start_component",
				"component": name,
				"error":     err.Error(),
			}).Error("Failed to start component")

			rm.stopComponents(ctx, rm.componentOrder[:i])
			return fmt.Errorf("failed to start component %s: %w", name, err)
		}

		rm.logger.WithFields(logger.Fields{
			"operation": "start_component",
			"component": name,
		}).Debug("Successfully started component")
	}

	rm.state = RuntimeStateRunning

	rm.logger.WithFields(logger.Fields{
		"operation":  "start",
		"duration":   time.Since(rm.startedAt),
		"components": len(rm.components),
		"addr":       rm.server.Addr(),
	}).Info("Successfully started gitea-bridge runtime")

	return nil
}

// Run implements Runtime.Run
func (rm *RuntimeManager) Run(ctx context.Context) error {
	if err := rm.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range rm.componentOrder {
		if runner, ok := rm.components[name].(Runner); ok {
			g.Go(func() error {
				return runner.Run(gctx)
			})
		}
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	runErr := g.Wait()
	if runErr != nil {
		rm.logger.WithError(runErr).Error("Runtime component failed, shutting down")
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rm.shutdownTimeout())
	defer cancel()

	if err := rm.Stop(stopCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (rm *RuntimeManager) shutdownTimeout() time.Duration {
	if rm.config.App.ShutdownTimeout > 0 {
		return rm.config.App.ShutdownTimeout
	}
	return defaultShutdownTimeout
}

// Stop implements Runtime.Stop
func (rm *RuntimeManager) Stop(ctx context.Context) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.state == RuntimeStateStopped || rm.state == RuntimeStateUnknown {
		return nil
	}

	rm.logger.WithFields(logger.Fields{
		"operation": "stop",
	}).Info("Stopping gitea-bridge runtime")

	rm.state = RuntimeStateStopping
	errs := rm.stopComponents(ctx, rm.componentOrder)
	rm.state = RuntimeStateStopped

	rm.logger.WithFields(logger.Fields{
		"operation": "stop",
		"uptime":    time.Since(rm.startedAt),
	}).Info("Successfully stopped gitea-bridge runtime")

	if errs > 0 {
		return fmt.Errorf("%d component(s) failed to stop cleanly", errs)
	}
	return nil
}

// stopComponents stops names in reverse order and reports how many failed
func (rm *RuntimeManager) stopComponents(ctx context.Context, names []string) int {
	failed := 0
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]

		if err := rm.components[name].Stop(ctx); err != nil {
			failed++
			rm.logger.WithFields(logger.Fields{
				"operation": "stop_component",
				"component": name,
				"error":     err.Error(),
			}).Error("Failed to stop component")
			continue
		}

		rm.logger.WithFields(logger.Fields{
			"operation": "stop_component",
			"component": name,
		}).Debug("Successfully stopped component")
	}
	return failed
}

// Health implements Runtime.Health
func (rm *RuntimeManager) Health(ctx context.Context) (*HealthStatus, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	healthStatus := &HealthStatus{
		Status:     HealthStateHealthy,
		Timestamp:  time.Now(),
		Components: make(map[string]HealthState),
		Checks:     []HealthCheck{},
	}

	for _, name := range rm.componentOrder {
		start := time.Now()
		err := rm.components[name].Health(ctx)

		check := HealthCheck{
			Name:     name,
			Status:   HealthStateHealthy,
			Duration: time.Since(start),
		}
		if err != nil {
			check.Status = HealthStateUnhealthy
			check.Error = err.Error()
			healthStatus.Status = HealthStateUnhealthy
		}

		healthStatus.Components[name] = check.Status
		healthStatus.Checks = append(healthStatus.Checks, check)
	}

	return healthStatus, nil
}

// GetStatus implements Runtime.GetStatus
func (rm *RuntimeManager) GetStatus() *RuntimeStatus {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	status := &RuntimeStatus{
		State:      rm.state,
		StartedAt:  rm.startedAt,
		Version:    api.GetVersion().App,
		Components: make(map[string]ComponentStatus),
	}
	if !rm.startedAt.IsZero() {
		status.Uptime = time.Since(rm.startedAt)
	}

	for name, component := range rm.components {
		status.Components[name] = component.GetStatus()
	}

	return status
}

// GetComponent returns a component by name
func (rm *RuntimeManager) GetComponent(name string) (Component, bool) {
	component, ok := rm.components[name]
	return component, ok
}

// GetConfig returns the current configuration
func (rm *RuntimeManager) GetConfig() *types.Config {
	return rm.config
}

// Server returns the API server
func (rm *RuntimeManager) Server() *api.Server {
	return rm.server
}
