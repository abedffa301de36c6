package logger

import (
	"context"
	"time"
)

type loggerContextKey struct{}

// LogContext represents structured logging context carried through a request
type LogContext struct {
	Component string                 `json:"component,omitempty"`
	Module    string                 `json:"module,omitempty"`
	Operation string                 `json:"operation,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Upstream  string                 `json:"upstream,omitempty"`
	StartTime time.Time              `json:"start_time,omitempty"`
	Custom    map[string]interface{} `json:"custom,omitempty"`
}

// ToFields converts LogContext to logger Fields
func (lc LogContext) ToFields() Fields {
	fields := Fields{}

	if lc.Component != "" {
		fields["component"] = lc.Component
	}
	if lc.Module != "" {
		fields["module"] = lc.Module
	}
	if lc.Operation != "" {
		fields["operation"] = lc.Operation
	}
	if lc.RequestID != "" {
		fields["request_id"] = lc.RequestID
	}
	if lc.Upstream != "" {
		fields["upstream"] = lc.Upstream
	}
	if !lc.StartTime.IsZero() {
		fields["start_time"] = lc.StartTime
	}

	for k, v := range lc.Custom {
		fields[k] = v
	}

	return fields
}

// Merge overlays the non-empty values of other onto lc
func (lc LogContext) Merge(other LogContext) LogContext {
	result := lc

	if other.Component != "" {
		result.Component = other.Component
	}
	if other.Module != "" {
		result.Module = other.Module
	}
	if other.Operation != "" {
		result.Operation = other.Operation
	}
	if other.RequestID != "" {
		result.RequestID = other.RequestID
	}
	if other.Upstream != "" {
		result.Upstream = other.Upstream
	}
	if !other.StartTime.IsZero() {
		result.StartTime = other.StartTime
	}

	if len(other.Custom) > 0 {
		custom := make(map[string]interface{}, len(result.Custom)+len(other.Custom))
		for k, v := range result.Custom {
			custom[k] = v
		}
		for k, v := range other.Custom {
			custom[k] = v
		}
		result.Custom = custom
	}

	return result
}

// WithContext stores logging context in a Go context, merging with any existing one
func WithContext(ctx context.Context, logCtx LogContext) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, FromContext(ctx).Merge(logCtx))
}

// FromContext extracts logging context from Go context
func FromContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(loggerContextKey{}).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// RequestIDFromContext returns the request ID attached by the HTTP middleware
func RequestIDFromContext(ctx context.Context) string {
	return FromContext(ctx).RequestID
}
