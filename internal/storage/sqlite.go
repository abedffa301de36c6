package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/johnnynv/gitea-bridge/pkg/types"
)

const memoryPath = ":memory:"

// SQLiteStorage implements Storage interface using SQLite
type SQLiteStorage struct {
	db               *sql.DB
	config           *types.SQLiteConfig
	migrationManager *MigrationManager
}

// NewSQLiteStorage opens (and creates, if needed) the journal database
func NewSQLiteStorage(config *types.SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		return nil, fmt.Errorf("SQLite config is required")
	}

	dsn := config.Path
	if config.Path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		timeout := config.ConnectionTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		dsn = fmt.Sprintf("%s?_journal_mode=WAL&_timeout=%d", config.Path, timeout.Milliseconds())
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.Path == memoryPath {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		maxConns := config.MaxConnections
		if maxConns <= 0 {
			maxConns = 1
		}
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns/2 + 1)
		db.SetConnMaxLifetime(time.Hour)
	}

	return NewSQLiteStorageWithDB(db, config), nil
}

// NewSQLiteStorageWithDB wraps an already opened database handle
func NewSQLiteStorageWithDB(db *sql.DB, config *types.SQLiteConfig) *SQLiteStorage {
	return &SQLiteStorage{
		db:               db,
		config:           config,
		migrationManager: NewMigrationManager(db),
	}
}

// Initialize initializes the database and runs migrations
func (s *SQLiteStorage) Initialize(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := s.migrationManager.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// HealthCheck checks if the database is accessible
func (s *SQLiteStorage) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveEvent appends an event to the journal
func (s *SQLiteStorage) SaveEvent(ctx context.Context, event *types.Event) error {
	if event.ID == "" {
		return fmt.Errorf("event ID is required")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = event.CreatedAt
	}

	var row SQLiteEvent
	row.FromEvent(event)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO request_events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.Operation, row.Status, row.ErrorKind, row.ErrorMessage, row.DurationMs,
		row.RequestID, row.Metadata, row.Timestamp, row.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &DuplicateEventError{EventID: event.ID}
		}
		return fmt.Errorf("failed to save event: %w", err)
	}

	return nil
}

// GetEvent retrieves an event by ID
func (s *SQLiteStorage) GetEvent(ctx context.Context, eventID string) (*types.Event, error) {
	var row SQLiteEvent
	err := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM request_events WHERE id = ?`, eventID).Scan(row.scanTargets()...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &EventNotFoundError{EventID: eventID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return row.ToEvent(), nil
}

// GetEvents pages through the journal, newest first
func (s *SQLiteStorage) GetEvents(ctx context.Context, limit, offset int) ([]*types.Event, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM request_events ORDER BY timestamp DESC, id LIMIT ? OFFSET ?`,
		limit, offset)
}

// GetEventsByOperation lists the latest events for one operation
func (s *SQLiteStorage) GetEventsByOperation(ctx context.Context, operation string, limit int) ([]*types.Event, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM request_events WHERE operation = ? ORDER BY timestamp DESC, id LIMIT ?`,
		operation, limit)
}

// GetEventsSince lists events newer than since, oldest first
func (s *SQLiteStorage) GetEventsSince(ctx context.Context, since time.Time) ([]*types.Event, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM request_events WHERE timestamp > ? ORDER BY timestamp ASC, id`,
		since.UTC())
}

// DeleteOldEvents removes events older than before and reports how many went
func (s *SQLiteStorage) DeleteOldEvents(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM request_events WHERE timestamp < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old events: %w", err)
	}
	return result.RowsAffected()
}

// GetStats retrieves storage statistics
func (s *SQLiteStorage) GetStats(ctx context.Context) (*StorageStats, error) {
	stats := &StorageStats{EventsByOperation: make(map[string]int64)}

	var lastEventTime sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM request_events),
			(SELECT COUNT(*) FROM request_events WHERE status = 'failed'),
			(SELECT MAX(timestamp) FROM request_events)
	`).Scan(&stats.TotalEvents, &stats.FailedEvents, &lastEventTime)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage stats: %w", err)
	}

	if lastEventTime.Valid {
		if t, ok := parseSQLiteTime(lastEventTime.String); ok {
			stats.LastEventTime = t
		}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT operation, COUNT(*) FROM request_events GROUP BY operation")
	if err != nil {
		return nil, fmt.Errorf("failed to count events by operation: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var operation string
		var count int64
		if err := rows.Scan(&operation, &count); err != nil {
			return nil, fmt.Errorf("failed to scan operation count: %w", err)
		}
		stats.EventsByOperation[operation] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s.config != nil && s.config.Path != memoryPath {
		if info, err := os.Stat(s.config.Path); err == nil {
			stats.DatabaseSize = info.Size()
		}
	}

	return stats, nil
}

// Migrations exposes the migration manager, for status reporting
func (s *SQLiteStorage) Migrations() *MigrationManager {
	return s.migrationManager
}

func (s *SQLiteStorage) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*types.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]*types.Event, 0)
	for rows.Next() {
		var row SQLiteEvent
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, row.ToEvent())
	}

	return events, rows.Err()
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
