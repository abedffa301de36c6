package runtime

import (
	"context"
	"fmt"

	"github.com/johnnynv/gitea-bridge/internal/api"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
)

// APIComponent wraps the API server
type APIComponent struct {
	BaseComponent
	server *api.Server
}

// NewAPIComponent creates a new API component. When runtime is non-nil it
// backs /health and /status.
func NewAPIComponent(server *api.Server, runtime Runtime, parentLogger *logger.Entry) *APIComponent {
	if runtime != nil {
		server.SetRuntime(newRuntimeAPIAdapter(runtime))
	}

	c := &APIComponent{server: server}
	c.init("api_server", parentLogger)
	return c
}

// Start implements Component.Start
func (c *APIComponent) Start(ctx context.Context) error {
	c.markStarting()

	if err := c.server.Start(ctx); err != nil {
		c.setError(err)
		return fmt.Errorf("failed to start API server: %w", err)
	}

	c.setState(ComponentStateRunning)

	c.logger.WithFields(logger.Fields{
		"operation": "start",
		"addr":      c.server.Addr(),
		"duration":  c.uptime(),
	}).Info("API server component started successfully")

	return nil
}

// Run blocks until ctx is done, or returns the error that ended serving
func (c *APIComponent) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-c.server.Err():
		c.setError(err)
		return fmt.Errorf("API server failed: %w", err)
	}
}

// Stop implements Component.Stop
func (c *APIComponent) Stop(ctx context.Context) error {
	c.setState(ComponentStateStopping)

	if err := c.server.Stop(ctx); err != nil {
		c.setError(err)
		return fmt.Errorf("failed to stop API server: %w", err)
	}

	c.setState(ComponentStateStopped)

	c.logger.WithFields(logger.Fields{
		"operation": "stop",
	}).Info("API server component stopped successfully")

	return nil
}

// Health implements Component.Health
func (c *APIComponent) Health(ctx context.Context) error {
	return c.server.Health(ctx)
}

// GetServer returns the underlying API server
func (c *APIComponent) GetServer() *api.Server {
	return c.server
}
