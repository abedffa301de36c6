package runtime

import (
	"context"
	"time"

	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// Runtime represents the main application runtime that orchestrates all components
type Runtime interface {
	// Start initializes and starts all components
	Start(ctx context.Context) error

	// Run starts all components, drives their background loops until ctx
	// is done or one of them fails, then stops everything
	Run(ctx context.Context) error

	// Stop gracefully shuts down all components
	Stop(ctx context.Context) error

	// Health returns the health status of all components
	Health(ctx context.Context) (*HealthStatus, error)

	// GetStatus returns the current runtime status
	GetStatus() *RuntimeStatus
}

// RuntimeStatus represents the current status of the runtime
type RuntimeStatus struct {
	State      RuntimeState               `json:"state"`
	StartedAt  time.Time                  `json:"started_at"`
	Uptime     time.Duration              `json:"uptime"`
	Version    string                     `json:"version"`
	Components map[string]ComponentStatus `json:"components"`
}

// ComponentStatus represents the status of an individual component
type ComponentStatus struct {
	Name      string         `json:"name"`
	State     ComponentState `json:"state"`
	StartedAt time.Time      `json:"started_at,omitempty"`
	Uptime    time.Duration  `json:"uptime,omitempty"`
	Health    HealthState    `json:"health"`
	LastError string         `json:"last_error,omitempty"`
}

// HealthStatus represents overall health information
type HealthStatus struct {
	Status     HealthState            `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Components map[string]HealthState `json:"components"`
	Checks     []HealthCheck          `json:"checks"`
}

// HealthCheck represents an individual health check result
type HealthCheck struct {
	Name     string        `json:"name"`
	Status   HealthState   `json:"status"`
	Duration time.Duration `json:"duration"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// RuntimeState represents the state of the runtime
type RuntimeState string

const (
	RuntimeStateUnknown  RuntimeState = "unknown"
	RuntimeStateStarting RuntimeState = "starting"
	RuntimeStateRunning  RuntimeState = "running"
	RuntimeStateStopping RuntimeState = "stopping"
	RuntimeStateStopped  RuntimeState = "stopped"
	RuntimeStateError    RuntimeState = "error"
)

// ComponentState represents the state of a component
type ComponentState string

const (
	ComponentStateUnknown  ComponentState = "unknown"
	ComponentStateStarting ComponentState = "starting"
	ComponentStateRunning  ComponentState = "running"
	ComponentStateStopping ComponentState = "stopping"
	ComponentStateStopped  ComponentState = "stopped"
	ComponentStateError    ComponentState = "error"
)

// HealthState represents health status
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateUnhealthy HealthState = "unhealthy"
	HealthStateUnknown   HealthState = "unknown"
)

// Component represents a manageable component in the runtime
type Component interface {
	// GetName returns the component name
	GetName() string

	// Start starts the component
	Start(ctx context.Context) error

	// Stop stops the component
	Stop(ctx context.Context) error

	// Health checks component health
	Health(ctx context.Context) error

	// GetStatus returns component status
	GetStatus() ComponentStatus
}

// Runner is implemented by components that own a background loop.
// Run blocks until ctx is done or the loop fails.
type Runner interface {
	Run(ctx context.Context) error
}

// RuntimeFactory creates Runtime instances
type RuntimeFactory interface {
	// CreateRuntime creates a new Runtime instance
	CreateRuntime(config *types.Config) (Runtime, error)
}
