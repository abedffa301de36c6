package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/gitea-bridge/pkg/types"
)

func decodeLastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestLogger_NewLogger_WithValidConfig(t *testing.T) {
	logger, err := NewLogger(Config{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestLogger_NewLogger_WithInvalidLevel(t *testing.T) {
	logger, err := NewLogger(Config{Level: "invalid_level", Format: "json", Output: "stderr"})
	require.NoError(t, err) // falls back to info
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestLogger_NewLogger_WithFileOutput(t *testing.T) {
	tempFile := t.TempDir() + "/bridge.log"

	logger, err := NewLogger(Config{Level: "info", Format: "text", Output: tempFile})
	require.NoError(t, err)

	logger.Info("upstream reachable")

	content, err := os.ReadFile(tempFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "upstream reachable")
}

func TestLogger_GetDefaultLogger(t *testing.T) {
	logger := GetDefaultLogger()
	assert.NotNil(t, logger)
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestLogger_JSONFormat_Structured(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(Config{Level: "info", Format: "json"}, &buf)

	logger.WithComponent("gitea").
		WithOperation("list_commits").
		WithUpstream("/repos/virida/virida/commits").
		Info("fetched commits")

	entry := decodeLastLine(t, &buf)
	assert.Equal(t, "fetched commits", entry["message"])
	assert.Equal(t, "gitea", entry["component"])
	assert.Equal(t, "list_commits", entry["operation"])
	assert.Equal(t, "/repos/virida/virida/commits", entry["upstream_path"])
	assert.NotNil(t, entry["timestamp"])
	assert.Equal(t, "info", entry["level"])
}

func TestLogger_TextFormat_Readable(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(Config{Level: "info", Format: "text"}, &buf)

	logger.Info("simple text message")

	output := buf.String()
	assert.Contains(t, output, "simple text message")
	assert.Contains(t, output, "level=info")
	assert.Contains(t, output, "time=")
}

func TestLogger_LogLevels_Threshold(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(Config{Level: "warn", Format: "text"}, &buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestEntry_WithRequestID_SkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(Config{Level: "info", Format: "json"}, &buf)

	logger.WithComponent("api").WithRequestID("").Info("no id")
	entry := decodeLastLine(t, &buf)
	_, exists := entry["request_id"]
	assert.False(t, exists)

	logger.WithComponent("api").WithRequestID("req-1").Info("with id")
	entry = decodeLastLine(t, &buf)
	assert.Equal(t, "req-1", entry["request_id"])
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(types.AppConfig{LogLevel: "debug", LogFormat: "text"})
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)

	cfg = FromAppConfig(types.AppConfig{
		LogFile:         "/var/log/bridge.log",
		LogFileRotation: types.LogFileConfig{MaxSize: 10, MaxBackups: 2, MaxAge: 5},
	})
	assert.Equal(t, "/var/log/bridge.log", cfg.Output)
	assert.Equal(t, 10, cfg.File.MaxSize)
	assert.Equal(t, 2, cfg.File.MaxBackups)
	assert.Equal(t, "info", cfg.Level)
}

func TestLogContext_RoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), LogContext{RequestID: "abc"})
	ctx = WithContext(ctx, LogContext{Operation: "stats"})

	lc := FromContext(ctx)
	assert.Equal(t, "abc", lc.RequestID)
	assert.Equal(t, "stats", lc.Operation)
	assert.Equal(t, "abc", RequestIDFromContext(ctx))

	assert.Equal(t, LogContext{}, FromContext(context.Background()))
}

func TestLogContext_MergeCustom(t *testing.T) {
	base := LogContext{Custom: map[string]interface{}{"a": 1}}
	merged := base.Merge(LogContext{Custom: map[string]interface{}{"b": 2}})

	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, merged.Custom)
	assert.Len(t, base.Custom, 1, "merge must not mutate the receiver")
}

func TestManager_OperationLogging(t *testing.T) {
	var buf bytes.Buffer
	manager := NewManagerWithLogger(NewLoggerWithWriter(Config{Level: "info", Format: "json"}, &buf))

	ctx := WithContext(context.Background(), LogContext{RequestID: "req-42"})
	op := manager.StartOperation(ctx, "bridge", "branches")
	op.Success("branches fetched", Fields{"count": 3})

	entry := decodeLastLine(t, &buf)
	assert.Equal(t, "branches fetched", entry["message"])
	assert.Equal(t, "bridge", entry["component"])
	assert.Equal(t, "branches", entry["operation"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, true, entry["success"])
	assert.Equal(t, float64(3), entry["count"])

	op.Fail("branches failed", errors.New("boom"))
	entry = decodeLastLine(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, false, entry["success"])
}

func TestManager_ForComponentIsCached(t *testing.T) {
	manager := NewManagerWithLogger(NewLoggerWithWriter(DefaultConfig(), &bytes.Buffer{}))

	first := manager.ForComponent("api")
	second := manager.ForComponent("api")
	assert.Same(t, first, second)

	module := manager.ForModule("api", "middleware")
	assert.Equal(t, "middleware", module.Data["module"])
}

func TestManager_RotationUnavailableForStdout(t *testing.T) {
	manager, err := NewManager(Config{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	assert.Error(t, manager.RotateLog())
	_, err = manager.GetLogStats()
	assert.Error(t, err)
	assert.NoError(t, manager.Close())
}

func TestManager_FileRotation(t *testing.T) {
	logFile := t.TempDir() + "/bridge.log"
	manager, err := NewManager(Config{
		Level:  "info",
		Format: "json",
		Output: logFile,
		File:   FileConfig{MaxSize: 1, MaxBackups: 1, MaxAge: 1},
	})
	require.NoError(t, err)
	defer manager.Close()

	manager.GetRootLogger().Info("first line")

	stats, err := manager.GetLogStats()
	require.NoError(t, err)
	assert.Equal(t, logFile, stats.CurrentFile)
	assert.Greater(t, stats.CurrentSize, int64(0))

	assert.NoError(t, manager.RotateLog())
}

func TestSlowOperationHook(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(Config{Level: "info", Format: "json"}, &buf)
	logger.AddHook(&SlowOperationHook{Threshold: time.Millisecond})

	logger.WithField("duration", time.Second).Info("slow")
	entry := decodeLastLine(t, &buf)
	assert.Equal(t, "slow_operation", entry["performance_alert"])

	logger.WithField("duration", time.Microsecond).Info("fast")
	entry = decodeLastLine(t, &buf)
	_, flagged := entry["performance_alert"]
	assert.False(t, flagged)
}
