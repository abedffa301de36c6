package runtime

import (
	"context"
	"time"

	"github.com/johnnynv/gitea-bridge/internal/api"
)

// runtimeAPIAdapter adapts Runtime interface to api.RuntimeProvider
type runtimeAPIAdapter struct {
	runtime Runtime
}

// newRuntimeAPIAdapter creates a new adapter
func newRuntimeAPIAdapter(runtime Runtime) api.RuntimeProvider {
	return &runtimeAPIAdapter{runtime: runtime}
}

// Health implements api.RuntimeProvider.Health
func (a *runtimeAPIAdapter) Health(ctx context.Context) api.RuntimeHealthStatus {
	health, err := a.runtime.Health(ctx)
	if err != nil || health == nil {
		return api.RuntimeHealthStatus{
			Healthy:    false,
			Components: make(map[string]api.ComponentHealth),
		}
	}

	components := make(map[string]api.ComponentHealth, len(health.Components))
	for name, state := range health.Components {
		components[name] = api.ComponentHealth{Status: string(state)}
	}
	for _, check := range health.Checks {
		if check.Error == "" {
			continue
		}
		component := components[check.Name]
		component.Message = check.Error
		components[check.Name] = component
	}

	return api.RuntimeHealthStatus{
		Healthy:    health.Status == HealthStateHealthy,
		Components: components,
	}
}

// GetStatus implements api.RuntimeProvider.GetStatus
func (a *runtimeAPIAdapter) GetStatus() *api.RuntimeStatus {
	status := a.runtime.GetStatus()
	if status == nil {
		return &api.RuntimeStatus{
			State:      string(RuntimeStateUnknown),
			Components: make(map[string]api.ComponentStatus),
		}
	}

	components := make(map[string]api.ComponentStatus, len(status.Components))
	for name, comp := range status.Components {
		components[name] = api.ComponentStatus{
			Name:      comp.Name,
			State:     string(comp.State),
			StartedAt: comp.StartedAt,
			Uptime:    formatUptime(comp.Uptime),
			Health:    string(comp.Health),
			LastError: comp.LastError,
		}
	}

	return &api.RuntimeStatus{
		State:      string(status.State),
		StartedAt:  status.StartedAt,
		Uptime:     formatUptime(status.Uptime),
		Version:    status.Version,
		Components: components,
	}
}

func formatUptime(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.Round(time.Second).String()
}
