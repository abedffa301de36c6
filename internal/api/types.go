package api

import (
	"context"
	"time"
)

// RuntimeHealthStatus is the aggregated component health
type RuntimeHealthStatus struct {
	Healthy    bool                       `json:"healthy"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents individual component health
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// RuntimeStatus represents runtime status
type RuntimeStatus struct {
	State      string                     `json:"state"`
	StartedAt  time.Time                  `json:"started_at"`
	Uptime     string                     `json:"uptime"`
	Version    string                     `json:"version"`
	Components map[string]ComponentStatus `json:"components"`
}

// ComponentStatus represents individual component status
type ComponentStatus struct {
	Name      string    `json:"name"`
	State     string    `json:"state"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Health    string    `json:"health"`
	LastError string    `json:"last_error,omitempty"`
}

// RuntimeProvider interface for runtime operations
type RuntimeProvider interface {
	Health(ctx context.Context) RuntimeHealthStatus
	GetStatus() *RuntimeStatus
}
