package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/gitea-bridge/internal/api"
)

type mockRuntime struct {
	healthStatus  *HealthStatus
	runtimeStatus *RuntimeStatus
}

func (m *mockRuntime) Start(ctx context.Context) error { return nil }
func (m *mockRuntime) Run(ctx context.Context) error   { return nil }
func (m *mockRuntime) Stop(ctx context.Context) error  { return nil }

func (m *mockRuntime) Health(ctx context.Context) (*HealthStatus, error) {
	return m.healthStatus, nil
}

func (m *mockRuntime) GetStatus() *RuntimeStatus {
	return m.runtimeStatus
}

func TestNewRuntimeAPIAdapter(t *testing.T) {
	var provider api.RuntimeProvider = newRuntimeAPIAdapter(&mockRuntime{})
	assert.NotNil(t, provider)
}

func TestRuntimeAPIAdapter_Health(t *testing.T) {
	adapter := newRuntimeAPIAdapter(&mockRuntime{
		healthStatus: &HealthStatus{
			Status:    HealthStateUnhealthy,
			Timestamp: time.Now(),
			Components: map[string]HealthState{
				"config":  HealthStateHealthy,
				"storage": HealthStateUnhealthy,
			},
			Checks: []HealthCheck{
				{Name: "config", Status: HealthStateHealthy, Duration: time.Millisecond},
				{Name: "storage", Status: HealthStateUnhealthy, Error: "sql: database is closed"},
			},
		},
	})

	health := adapter.Health(context.Background())

	assert.False(t, health.Healthy)
	require.Len(t, health.Components, 2)
	assert.Equal(t, api.ComponentHealth{Status: "healthy"}, health.Components["config"])
	assert.Equal(t, api.ComponentHealth{Status: "unhealthy", Message: "sql: database is closed"}, health.Components["storage"])
}

func TestRuntimeAPIAdapter_HealthWithoutResult(t *testing.T) {
	health := newRuntimeAPIAdapter(&mockRuntime{}).Health(context.Background())

	assert.False(t, health.Healthy)
	assert.Empty(t, health.Components)
}

func TestRuntimeAPIAdapter_GetStatus(t *testing.T) {
	now := time.Now()
	adapter := newRuntimeAPIAdapter(&mockRuntime{
		runtimeStatus: &RuntimeStatus{
			State:     RuntimeStateRunning,
			StartedAt: now,
			Uptime:    90*time.Minute + 400*time.Millisecond,
			Version:   "1.2.3",
			Components: map[string]ComponentStatus{
				"api_server": {
					Name:      "api_server",
					State:     ComponentStateError,
					StartedAt: now,
					Uptime:    time.Minute,
					Health:    HealthStateUnhealthy,
					LastError: "address already in use",
				},
			},
		},
	})

	status := adapter.GetStatus()

	assert.Equal(t, "running", status.State)
	assert.Equal(t, "1h30m0s", status.Uptime)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, now, status.StartedAt)
	assert.Equal(t, api.ComponentStatus{
		Name:      "api_server",
		State:     "error",
		StartedAt: now,
		Uptime:    "1m0s",
		Health:    "unhealthy",
		LastError: "address already in use",
	}, status.Components["api_server"])
}

func TestRuntimeAPIAdapter_GetStatusWithoutResult(t *testing.T) {
	status := newRuntimeAPIAdapter(&mockRuntime{}).GetStatus()

	assert.Equal(t, "unknown", status.State)
	assert.Empty(t, status.Components)
	assert.Empty(t, status.Uptime)
}
