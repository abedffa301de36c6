package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Name        string
	Description string
	Up          string
	Down        string
}

// MigrationManager handles database migrations
type MigrationManager struct {
	db *sql.DB
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sql.DB) *MigrationManager {
	return &MigrationManager{db: db}
}

// GetMigrations returns all available migrations in version order
func (m *MigrationManager) GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Name:        "request_events",
			Description: "Create the request journal table",
			Up: `
				CREATE TABLE IF NOT EXISTS request_events (
					id TEXT PRIMARY KEY,
					operation TEXT NOT NULL,
					status TEXT NOT NULL,
					error_kind TEXT,
					error_message TEXT,
					duration_ms INTEGER NOT NULL DEFAULT 0,
					request_id TEXT,
					metadata TEXT,
					timestamp DATETIME NOT NULL,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				);
			`,
			Down: `
				DROP TABLE IF EXISTS request_events;
			`,
		},
		{
			Version:     2,
			Name:        "request_events_indexes",
			Description: "Index the journal for listing and retention",
			Up: `
				CREATE INDEX IF NOT EXISTS idx_request_events_timestamp ON request_events(timestamp);
				CREATE INDEX IF NOT EXISTS idx_request_events_operation ON request_events(operation, timestamp);
				-- failures are what operators look for
				CREATE INDEX IF NOT EXISTS idx_request_events_failed ON request_events(status) WHERE status = 'failed';
			`,
			Down: `
				DROP INDEX IF EXISTS idx_request_events_failed;
				DROP INDEX IF EXISTS idx_request_events_operation;
				DROP INDEX IF EXISTS idx_request_events_timestamp;
			`,
		},
	}
}

// Migrate runs all pending migrations
func (m *MigrationManager) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, migration := range m.GetMigrations() {
		if migration.Version <= currentVersion {
			continue
		}
		if err := m.apply(ctx, migration.Up, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version, migration.Name); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	return nil
}

// Rollback reverts migrations above targetVersion, newest first
func (m *MigrationManager) Rollback(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if targetVersion >= currentVersion {
		return fmt.Errorf("target version %d is not less than current version %d", targetVersion, currentVersion)
	}

	migrations := m.GetMigrations()
	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if migration.Version <= targetVersion {
			break
		}
		if migration.Version > currentVersion {
			continue
		}
		if err := m.apply(ctx, migration.Down, "DELETE FROM schema_migrations WHERE version = ?",
			migration.Version); err != nil {
			return fmt.Errorf("failed to rollback migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	return nil
}

// CurrentVersion returns the applied schema version, 0 for an empty database
func (m *MigrationManager) CurrentVersion(ctx context.Context) (int, error) {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return 0, err
	}
	return m.getCurrentVersion(ctx)
}

func (m *MigrationManager) getCurrentVersion(ctx context.Context) (int, error) {
	var version int
	err := m.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

func (m *MigrationManager) ensureMigrationsTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// apply runs script and the bookkeeping statement in one transaction
func (m *MigrationManager) apply(ctx context.Context, script, bookkeeping string, args ...interface{}) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range splitSQL(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %s: %w", stmt, err)
		}
	}

	if _, err := tx.ExecContext(ctx, bookkeeping, args...); err != nil {
		return err
	}

	return tx.Commit()
}

// splitSQL splits a script on semicolons and drops "--" comment lines
func splitSQL(script string) []string {
	var result []string

	for _, stmt := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(stmt, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "--") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			result = append(result, strings.Join(lines, " "))
		}
	}

	return result
}

// GetAppliedMigrations returns list of applied migrations
func (m *MigrationManager) GetAppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version, name, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var migrations []AppliedMigration
	for rows.Next() {
		var migration AppliedMigration
		if err := rows.Scan(&migration.Version, &migration.Name, &migration.AppliedAt); err != nil {
			return nil, err
		}
		migrations = append(migrations, migration)
	}

	return migrations, rows.Err()
}

// AppliedMigration represents an applied migration
type AppliedMigration struct {
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	AppliedAt time.Time `json:"applied_at"`
}
