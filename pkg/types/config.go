package types

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	App      AppConfig      `yaml:"app" json:"app"`
	Upstream UpstreamConfig `yaml:"upstream" json:"upstream"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Sync     SyncConfig     `yaml:"sync" json:"sync"`
	Security SecurityConfig `yaml:"security" json:"security"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name            string        `yaml:"name" json:"name"`
	LogLevel        string        `yaml:"log_level" json:"log_level"`
	LogFormat       string        `yaml:"log_format" json:"log_format"`
	LogFile         string        `yaml:"log_file" json:"log_file,omitempty"`
	LogFileRotation LogFileConfig `yaml:"log_file_rotation" json:"log_file_rotation,omitempty"`
	ListenPort      int           `yaml:"listen_port" json:"listen_port"`
	DataDir         string        `yaml:"data_dir" json:"data_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// LogFileConfig represents log file rotation configuration
type LogFileConfig struct {
	MaxSize    int  `yaml:"max_size" json:"max_size"`       // MB
	MaxBackups int  `yaml:"max_backups" json:"max_backups"` // number of backup files
	MaxAge     int  `yaml:"max_age" json:"max_age"`         // days
	Compress   bool `yaml:"compress" json:"compress"`       // compress rotated files
}

// UpstreamConfig describes the Gitea instance and repository the bridge reads from
type UpstreamConfig struct {
	BaseURL           string        `yaml:"base_url" json:"base_url"`
	Token             string        `yaml:"token" json:"-"` // Hidden in JSON output
	Owner             string        `yaml:"owner" json:"owner"`
	Repo              string        `yaml:"repo" json:"repo"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"` // 0 disables limiting
	Burst             int           `yaml:"burst" json:"burst"`
}

// StorageConfig represents request journal storage configuration
type StorageConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Type      string        `yaml:"type" json:"type"`
	SQLite    SQLiteConfig  `yaml:"sqlite" json:"sqlite"`
	Retention time.Duration `yaml:"retention" json:"retention"`
}

// SQLiteConfig represents SQLite-specific configuration
type SQLiteConfig struct {
	Path              string        `yaml:"path" json:"path"`
	MaxConnections    int           `yaml:"max_connections" json:"max_connections"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout" json:"connection_timeout"`
}

// SyncConfig controls the envelope built by the sync endpoint
type SyncConfig struct {
	Source               string `yaml:"source" json:"source"`
	Version              string `yaml:"version" json:"version"`
	DefaultCommitMessage string `yaml:"default_commit_message" json:"default_commit_message"`
}

// SecurityConfig represents security-related configuration
type SecurityConfig struct {
	AllowedEnvVars []string `yaml:"allowed_env_vars" json:"allowed_env_vars"`
}
