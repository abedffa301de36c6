package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Validator validates configuration
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration
func (v *Validator) Validate(config *types.Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validateApp(&config.App)
	v.validateUpstream(&config.Upstream)
	v.validateStorage(&config.Storage)
	v.validateSync(&config.Sync)

	if len(v.errors) > 0 {
		return v.errors
	}

	return nil
}

func (v *Validator) validateApp(app *types.AppConfig) {
	if app.Name == "" {
		v.addError("app.name", app.Name, "application name is required")
	}

	if app.LogLevel != "" && !contains([]string{"debug", "info", "warn", "error"}, app.LogLevel) {
		v.addError("app.log_level", app.LogLevel, "invalid log level")
	}

	if app.LogFormat != "" && !contains([]string{"json", "text"}, app.LogFormat) {
		v.addError("app.log_format", app.LogFormat, "invalid log format")
	}

	if app.ListenPort <= 0 || app.ListenPort > 65535 {
		v.addError("app.listen_port", fmt.Sprintf("%d", app.ListenPort), "invalid port number")
	}

	if app.ShutdownTimeout < 0 {
		v.addError("app.shutdown_timeout", app.ShutdownTimeout.String(), "shutdown timeout cannot be negative")
	}
}

func (v *Validator) validateUpstream(upstream *types.UpstreamConfig) {
	if upstream.BaseURL == "" {
		v.addError("upstream.base_url", upstream.BaseURL, "upstream base URL is required")
	} else if err := validateBaseURL(upstream.BaseURL); err != nil {
		v.addError("upstream.base_url", upstream.BaseURL, err.Error())
	}

	if upstream.Owner == "" {
		v.addError("upstream.owner", upstream.Owner, "repository owner is required")
	}
	if upstream.Repo == "" {
		v.addError("upstream.repo", upstream.Repo, "repository name is required")
	}
	if strings.Contains(upstream.Owner, "/") || strings.Contains(upstream.Repo, "/") {
		v.addError("upstream.repo", upstream.Owner+"/"+upstream.Repo, "owner and repo must not contain '/'")
	}

	if upstream.Timeout <= 0 {
		v.addError("upstream.timeout", upstream.Timeout.String(), "timeout must be positive")
	}

	if upstream.RequestsPerSecond < 0 {
		v.addError("upstream.requests_per_second", fmt.Sprintf("%g", upstream.RequestsPerSecond), "requests per second cannot be negative")
	}
	if upstream.Burst < 0 {
		v.addError("upstream.burst", fmt.Sprintf("%d", upstream.Burst), "burst cannot be negative")
	}
}

func (v *Validator) validateStorage(storage *types.StorageConfig) {
	if !storage.Enabled {
		return
	}

	if storage.Type != "sqlite" {
		v.addError("storage.type", storage.Type, "storage type must be 'sqlite'")
		return
	}

	if storage.SQLite.Path == "" {
		v.addError("storage.sqlite.path", storage.SQLite.Path, "SQLite database path is required")
	}
	if storage.SQLite.MaxConnections <= 0 {
		v.addError("storage.sqlite.max_connections", fmt.Sprintf("%d", storage.SQLite.MaxConnections), "max connections must be positive")
	}
	if storage.Retention < 0 {
		v.addError("storage.retention", storage.Retention.String(), "retention cannot be negative")
	}
}

func (v *Validator) validateSync(sync *types.SyncConfig) {
	if sync.Source == "" {
		v.addError("sync.source", sync.Source, "sync source is required")
	}
	if sync.Version == "" {
		v.addError("sync.version", sync.Version, "sync version is required")
	}
}

func validateBaseURL(raw string) error {
	parsedURL, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "https" && parsedURL.Scheme != "http" {
		return fmt.Errorf("URL scheme must be http or https")
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return fmt.Errorf("URL must not carry a query or fragment")
	}

	return nil
}

func (v *Validator) addError(field, value, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
