package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
)

func testLogger() *logger.Logger {
	l, _ := logger.NewLogger(logger.Config{Level: "error", Format: "json", Output: "stderr"})
	return l
}

// clearBridgeEnv neutralises overrides that may be present on the host running the tests.
func clearBridgeEnv(t *testing.T) {
	t.Helper()
	for _, envs := range EnvironmentVariables() {
		for _, name := range envs {
			t.Setenv(name, "")
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gitea-bridge", config.App.Name)
	assert.Equal(t, 3001, config.App.ListenPort)
	assert.Equal(t, "https://gitea.cleverapps.io", config.Upstream.BaseURL)
	assert.Equal(t, "virida", config.Upstream.Owner)
	assert.Equal(t, "virida", config.Upstream.Repo)
	assert.Equal(t, 30*time.Second, config.Upstream.Timeout)
	assert.Empty(t, config.Upstream.Token)
	assert.True(t, config.Storage.Enabled)
	assert.Equal(t, filepath.Join("./data", "bridge.db"), config.Storage.SQLite.Path)
	assert.Equal(t, "virida_ihm", config.Sync.Source)
	assert.Equal(t, "1.0.0", config.Sync.Version)
	assert.Equal(t, "Sync environmental data from virida_ihm", config.Sync.DefaultCommitMessage)

	require.NoError(t, NewValidator().Validate(config))
}

func TestLoader_LoadFromBytes(t *testing.T) {
	t.Run("expands allowed variables", func(t *testing.T) {
		t.Setenv("GITEA_TOKEN", "tok-123")

		config, err := NewLoader().LoadFromBytes([]byte(`
upstream:
  base_url: https://git.example.org
  token: ${GITEA_TOKEN}
  owner: acme
  repo: widgets
  timeout: 5s
`))
		require.NoError(t, err)
		assert.Equal(t, "tok-123", config.Upstream.Token)
		assert.Equal(t, "https://git.example.org", config.Upstream.BaseURL)
		assert.Equal(t, "acme", config.Upstream.Owner)
		assert.Equal(t, 5*time.Second, config.Upstream.Timeout)
		assert.True(t, config.Storage.Enabled)
	})

	t.Run("leaves variables outside the allow-list", func(t *testing.T) {
		t.Setenv("SECRET_THING", "nope")

		config, err := NewLoader().LoadFromBytes([]byte(`
security:
  allowed_env_vars: ["UPSTREAM_TOKEN"]
upstream:
  token: ${SECRET_THING}
`))
		require.NoError(t, err)
		assert.Equal(t, "${SECRET_THING}", config.Upstream.Token)
	})

	t.Run("storage can be switched off", func(t *testing.T) {
		config, err := NewLoader().LoadFromBytes([]byte("storage:\n  enabled: false\n"))
		require.NoError(t, err)
		assert.False(t, config.Storage.Enabled)
	})

	t.Run("empty document yields defaults", func(t *testing.T) {
		config, err := NewLoader().LoadFromBytes(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := NewLoader().LoadFromBytes([]byte("app: [unterminated"))
		assert.Error(t, err)
	})
}

func TestApplyEnvironment(t *testing.T) {
	t.Run("primary names", func(t *testing.T) {
		clearBridgeEnv(t)
		t.Setenv("UPSTREAM_BASE_URL", "https://primary.example.org")
		t.Setenv("GITEA_URL", "https://alias.example.org")
		t.Setenv("UPSTREAM_TOKEN", "primary-token")
		t.Setenv("LISTEN_PORT", "4000")

		config := DefaultConfig()
		require.NoError(t, ApplyEnvironment(config))

		assert.Equal(t, "https://primary.example.org", config.Upstream.BaseURL)
		assert.Equal(t, "primary-token", config.Upstream.Token)
		assert.Equal(t, 4000, config.App.ListenPort)
	})

	t.Run("legacy aliases", func(t *testing.T) {
		clearBridgeEnv(t)
		t.Setenv("GITEA_URL", "https://alias.example.org")
		t.Setenv("GITEA_TOKEN", "alias-token")
		t.Setenv("PORT", "8081")

		config := DefaultConfig()
		require.NoError(t, ApplyEnvironment(config))

		assert.Equal(t, "https://alias.example.org", config.Upstream.BaseURL)
		assert.Equal(t, "alias-token", config.Upstream.Token)
		assert.Equal(t, 8081, config.App.ListenPort)
	})

	t.Run("nothing set keeps values", func(t *testing.T) {
		clearBridgeEnv(t)

		config := DefaultConfig()
		require.NoError(t, ApplyEnvironment(config))
		assert.Equal(t, DefaultConfig(), config)
	})
}

func TestValidator(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *types.Config)
		field  string
	}{
		{"bad scheme", func(c *types.Config) { c.Upstream.BaseURL = "ftp://example.org" }, "upstream.base_url"},
		{"missing host", func(c *types.Config) { c.Upstream.BaseURL = "https://" }, "upstream.base_url"},
		{"port out of range", func(c *types.Config) { c.App.ListenPort = 70000 }, "app.listen_port"},
		{"bad log level", func(c *types.Config) { c.App.LogLevel = "verbose" }, "app.log_level"},
		{"negative rate", func(c *types.Config) { c.Upstream.RequestsPerSecond = -1 }, "upstream.requests_per_second"},
		{"slash in repo", func(c *types.Config) { c.Upstream.Repo = "a/b" }, "upstream.repo"},
		{"unknown storage", func(c *types.Config) { c.Storage.Type = "postgres" }, "storage.type"},
		{"zero timeout", func(c *types.Config) { c.Upstream.Timeout = 0 }, "upstream.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := NewValidator().Validate(config)
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}

	t.Run("disabled storage skips storage checks", func(t *testing.T) {
		config := DefaultConfig()
		config.Storage.Enabled = false
		config.Storage.Type = "postgres"
		assert.NoError(t, NewValidator().Validate(config))
	})
}

func TestManager_Load(t *testing.T) {
	clearBridgeEnv(t)
	dataDir := t.TempDir()

	path := writeConfig(t, `
app:
  name: bridge-test
  listen_port: 3101
  data_dir: `+dataDir+`
upstream:
  base_url: https://git.example.org
`)

	manager := NewManager(testLogger())
	require.NoError(t, manager.Load(path))

	config := manager.Get()
	require.NotNil(t, config)
	assert.Equal(t, "bridge-test", config.App.Name)
	assert.Equal(t, 3101, config.App.ListenPort)
	assert.Equal(t, filepath.Join(dataDir, "bridge.db"), config.Storage.SQLite.Path)
	assert.Equal(t, path, manager.GetConfigPath())

	config.App.Name = "mutated"
	assert.Equal(t, "bridge-test", manager.Get().App.Name)
}

func TestManager_LoadMissingFile(t *testing.T) {
	manager := NewManager(testLogger())
	err := manager.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Nil(t, manager.Get())
}

func TestManager_WarnsOnUnresolvedTokenReference(t *testing.T) {
	clearBridgeEnv(t)

	path := writeConfig(t, `
upstream:
  base_url: https://git.example.org
  token: ${GITEA_TOKEN}
storage:
  enabled: false
`)

	var logs bytes.Buffer
	manager := NewManager(logger.NewLoggerWithWriter(logger.Config{Level: "warn", Format: "json"}, &logs))
	require.NoError(t, manager.Load(path))

	assert.Contains(t, logs.String(), "Upstream token references unset or disallowed environment variables")
	assert.Contains(t, logs.String(), "GITEA_TOKEN")
}

func TestManager_LoadWithDefaults(t *testing.T) {
	clearBridgeEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GITEA_TOKEN", "from-env")

	manager := NewManager(testLogger())
	require.NoError(t, manager.LoadWithDefaults("nonexistent.yaml"))

	config := manager.Get()
	require.NotNil(t, config)
	assert.Equal(t, "gitea-bridge", config.App.Name)
	assert.Equal(t, "from-env", config.Upstream.Token)

	_, err := os.Stat("data")
	assert.NoError(t, err, "data directory should be created for the journal")
}

func TestManager_ValidationFailure(t *testing.T) {
	clearBridgeEnv(t)
	path := writeConfig(t, "storage:\n  enabled: false\nupstream:\n  base_url: not-a-url\n")

	manager := NewManager(testLogger())
	err := manager.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")

	assert.Error(t, manager.Validate(path))
}

func TestManager_GetLoggerConfig(t *testing.T) {
	manager := NewManager(testLogger())
	assert.Equal(t, logger.DefaultConfig(), manager.GetLoggerConfig())

	config := DefaultConfig()
	config.App.LogLevel = "debug"
	config.App.LogFormat = "text"
	manager.SetConfig(config)

	lc := manager.GetLoggerConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "text", lc.Format)
}
