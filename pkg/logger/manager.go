package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SlowOperationThreshold marks operations that deserve a performance flag in logs
const SlowOperationThreshold = 5 * time.Second

// Manager owns the root logger and hands out component loggers
type Manager struct {
	rootLogger     *Logger
	config         Config
	contexts       map[string]*Entry
	rotatingWriter io.WriteCloser
	mu             sync.RWMutex
}

// NewManager creates a new logger manager
func NewManager(config Config) (*Manager, error) {
	rootLogger, err := NewLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create root logger: %w", err)
	}

	manager := &Manager{
		rootLogger: rootLogger,
		config:     config,
		contexts:   make(map[string]*Entry),
	}

	if lj, ok := rootLogger.Out.(*lumberjack.Logger); ok {
		manager.rotatingWriter = lj
	}

	rootLogger.AddHook(&SlowOperationHook{Threshold: SlowOperationThreshold})

	return manager, nil
}

// NewManagerWithLogger wraps an existing logger, mostly for tests
func NewManagerWithLogger(l *Logger) *Manager {
	return &Manager{
		rootLogger: l,
		config:     DefaultConfig(),
		contexts:   make(map[string]*Entry),
	}
}

// GetRootLogger returns the root logger
func (m *Manager) GetRootLogger() *Logger {
	return m.rootLogger
}

// ForComponent creates a logger for a specific component
func (m *Manager) ForComponent(component string) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "component:" + component
	if entry, exists := m.contexts[key]; exists {
		return entry
	}

	entry := m.rootLogger.WithField("component", component)
	m.contexts[key] = entry
	return entry
}

// ForModule creates a logger for a component module
func (m *Manager) ForModule(component, module string) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("component:%s:module:%s", component, module)
	if entry, exists := m.contexts[key]; exists {
		return entry
	}

	entry := m.rootLogger.WithFields(Fields{
		"component": component,
		"module":    module,
	})
	m.contexts[key] = entry
	return entry
}

// WithGoContext creates a logger from Go context
func (m *Manager) WithGoContext(ctx context.Context) *Entry {
	return m.rootLogger.WithFields(FromContext(ctx).ToFields())
}

// Close releases the rotating file writer, if any
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rotatingWriter != nil {
		return m.rotatingWriter.Close()
	}
	return nil
}

// RotateLog forces a rotation of the log file
func (m *Manager) RotateLog() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lj, ok := m.rotatingWriter.(*lumberjack.Logger); ok {
		return lj.Rotate()
	}
	return fmt.Errorf("log rotation not available")
}

// GetLogStats reports on the current log file
func (m *Manager) GetLogStats() (*LogStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lj, ok := m.rotatingWriter.(*lumberjack.Logger)
	if !ok {
		return nil, fmt.Errorf("log rotation not available")
	}

	stats := &LogStats{
		CurrentFile: lj.Filename,
		MaxSize:     lj.MaxSize,
		MaxAge:      lj.MaxAge,
		MaxBackups:  lj.MaxBackups,
		Compress:    lj.Compress,
	}
	if info, err := os.Stat(lj.Filename); err == nil {
		stats.CurrentSize = info.Size()
		stats.LastModified = info.ModTime()
	}

	return stats, nil
}

// LogStats describes the rotating log file
type LogStats struct {
	CurrentFile  string    `json:"current_file"`
	CurrentSize  int64     `json:"current_size"`
	LastModified time.Time `json:"last_modified"`
	MaxSize      int       `json:"max_size"`
	MaxAge       int       `json:"max_age"`
	MaxBackups   int       `json:"max_backups"`
	Compress     bool      `json:"compress"`
}

// SlowOperationHook flags entries whose duration exceeds Threshold
type SlowOperationHook struct {
	Threshold time.Duration
}

func (h *SlowOperationHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.InfoLevel,
		logrus.WarnLevel,
		logrus.ErrorLevel,
	}
}

func (h *SlowOperationHook) Fire(entry *logrus.Entry) error {
	if d, ok := entry.Data["duration"].(time.Duration); ok && d > h.Threshold {
		entry.Data["performance_alert"] = "slow_operation"
	}
	return nil
}

// Operation tracks a single timed unit of work
type Operation struct {
	Name      string
	StartTime time.Time
	logger    *Entry
	ctx       context.Context
}

// StartOperation begins a timed operation whose logger carries the request context
func (m *Manager) StartOperation(ctx context.Context, component, operation string) *Operation {
	startTime := time.Now()

	enhancedCtx := WithContext(ctx, LogContext{
		Component: component,
		Operation: operation,
	})

	op := &Operation{
		Name:      operation,
		StartTime: startTime,
		logger:    m.WithGoContext(enhancedCtx),
		ctx:       enhancedCtx,
	}

	op.logger.Debug("Operation started")
	return op
}

// Success logs successful completion
func (op *Operation) Success(message string, fields ...Fields) {
	duration := time.Since(op.StartTime)
	logFields := Fields{
		"duration":    duration,
		"duration_ms": duration.Milliseconds(),
		"success":     true,
	}
	for _, f := range fields {
		for k, v := range f {
			logFields[k] = v
		}
	}
	op.logger.WithFields(logFields).Info(message)
}

// Fail logs operation failure
func (op *Operation) Fail(message string, err error, fields ...Fields) {
	duration := time.Since(op.StartTime)
	logFields := Fields{
		"duration":    duration,
		"duration_ms": duration.Milliseconds(),
		"success":     false,
		"error":       err.Error(),
	}
	for _, f := range fields {
		for k, v := range f {
			logFields[k] = v
		}
	}
	op.logger.WithFields(logFields).Error(message)
}

// Elapsed returns the time since the operation started
func (op *Operation) Elapsed() time.Duration {
	return time.Since(op.StartTime)
}

// GetContext returns the enhanced context
func (op *Operation) GetContext() context.Context {
	return op.ctx
}

// GetLogger returns the operation logger
func (op *Operation) GetLogger() *Entry {
	return op.logger
}
