package config

import (
	"github.com/spf13/viper"

	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// envBindings maps config keys to the environment variables that override them.
// The first variable listed wins when several are set.
var envBindings = map[string][]string{
	"upstream.base_url": {"UPSTREAM_BASE_URL", "GITEA_URL"},
	"upstream.token":    {"UPSTREAM_TOKEN", "GITEA_TOKEN"},
	"upstream.owner":    {"UPSTREAM_OWNER"},
	"upstream.repo":     {"UPSTREAM_REPO"},
	"app.listen_port":   {"LISTEN_PORT", "PORT"},
	"app.log_level":     {"BRIDGE_LOG_LEVEL"},
}

// ApplyEnvironment overlays environment variable overrides onto config
func ApplyEnvironment(config *types.Config) error {
	v := viper.New()
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return err
		}
	}

	if v.IsSet("upstream.base_url") {
		config.Upstream.BaseURL = v.GetString("upstream.base_url")
	}
	if v.IsSet("upstream.token") {
		config.Upstream.Token = v.GetString("upstream.token")
	}
	if v.IsSet("upstream.owner") {
		config.Upstream.Owner = v.GetString("upstream.owner")
	}
	if v.IsSet("upstream.repo") {
		config.Upstream.Repo = v.GetString("upstream.repo")
	}
	if v.IsSet("app.listen_port") {
		config.App.ListenPort = v.GetInt("app.listen_port")
	}
	if v.IsSet("app.log_level") {
		config.App.LogLevel = v.GetString("app.log_level")
	}

	return nil
}

// EnvironmentVariables lists every variable ApplyEnvironment reads, for help output
func EnvironmentVariables() map[string][]string {
	out := make(map[string][]string, len(envBindings))
	for key, envs := range envBindings {
		out[key] = append([]string(nil), envs...)
	}
	return out
}
