package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// createTestStorage creates an initialized storage backed by a file in a temp dir
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	storage, err := NewSQLiteStorage(&types.SQLiteConfig{
		Path:              filepath.Join(t.TempDir(), "journal.db"),
		MaxConnections:    5,
		ConnectionTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	require.NoError(t, storage.Initialize(context.Background()))
	return storage
}

func newEvent(id, operation string, status types.EventStatus, at time.Time) *types.Event {
	return &types.Event{
		ID:         id,
		Operation:  operation,
		Status:     status,
		DurationMs: 12,
		RequestID:  "req-" + id,
		Timestamp:  at,
	}
}

func TestSQLiteStorage_Initialize(t *testing.T) {
	storage := createTestStorage(t)
	ctx := context.Background()

	assert.NoError(t, storage.HealthCheck(ctx))

	version, err := storage.Migrations().CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// Initializing twice is a no-op.
	assert.NoError(t, storage.Initialize(ctx))
}

func TestSQLiteStorage_InMemory(t *testing.T) {
	storage, err := NewSQLiteStorage(&types.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	require.NoError(t, storage.Initialize(ctx))
	require.NoError(t, storage.SaveEvent(ctx, newEvent("m1", types.OperationBranches, types.EventStatusSucceeded, time.Now())))

	event, err := storage.GetEvent(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, types.OperationBranches, event.Operation)
}

func TestSQLiteStorage_SaveAndGetEvent(t *testing.T) {
	storage := createTestStorage(t)
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	event := newEvent("e1", types.OperationCommits, types.EventStatusFailed, at)
	event.ErrorKind = "upstream"
	event.ErrorMessage = "upstream GET /repos/virida/virida/commits returned 404 Not Found"
	event.Metadata = map[string]string{"branch": "main", "limit": "10"}

	require.NoError(t, storage.SaveEvent(ctx, event))
	assert.False(t, event.CreatedAt.IsZero())

	got, err := storage.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, types.OperationCommits, got.Operation)
	assert.Equal(t, types.EventStatusFailed, got.Status)
	assert.Equal(t, "upstream", got.ErrorKind)
	assert.Equal(t, event.ErrorMessage, got.ErrorMessage)
	assert.Equal(t, int64(12), got.DurationMs)
	assert.Equal(t, "req-e1", got.RequestID)
	assert.Equal(t, map[string]string{"branch": "main", "limit": "10"}, got.Metadata)
	assert.True(t, got.Timestamp.Equal(at))
}

func TestSQLiteStorage_DuplicateAndMissing(t *testing.T) {
	storage := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SaveEvent(ctx, newEvent("dup", types.OperationStats, types.EventStatusSucceeded, time.Now())))

	err := storage.SaveEvent(ctx, newEvent("dup", types.OperationStats, types.EventStatusSucceeded, time.Now()))
	var dupErr *DuplicateEventError
	assert.True(t, errors.As(err, &dupErr))

	_, err = storage.GetEvent(ctx, "nope")
	var notFound *EventNotFoundError
	assert.True(t, errors.As(err, &notFound))

	assert.Error(t, storage.SaveEvent(ctx, &types.Event{Operation: "x"}), "an ID is required")
}

func TestSQLiteStorage_Listing(t *testing.T) {
	storage := createTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		op := types.OperationCommits
		if i%2 == 1 {
			op = types.OperationIssues
		}
		require.NoError(t, storage.SaveEvent(ctx,
			newEvent(fmt.Sprintf("e%d", i), op, types.EventStatusSucceeded, base.Add(time.Duration(i)*time.Minute))))
	}

	t.Run("newest first with paging", func(t *testing.T) {
		page, err := storage.GetEvents(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "e4", page[0].ID)
		assert.Equal(t, "e3", page[1].ID)

		page, err = storage.GetEvents(ctx, 2, 4)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "e0", page[0].ID)
	})

	t.Run("by operation", func(t *testing.T) {
		events, err := storage.GetEventsByOperation(ctx, types.OperationIssues, 10)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "e3", events[0].ID)
		assert.Equal(t, "e1", events[1].ID)
	})

	t.Run("since", func(t *testing.T) {
		events, err := storage.GetEventsSince(ctx, base.Add(2*time.Minute))
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "e3", events[0].ID)
		assert.Equal(t, "e4", events[1].ID)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		events, err := storage.GetEventsByOperation(ctx, types.OperationSync, 10)
		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})
}

func TestSQLiteStorage_DeleteOldEventsAndStats(t *testing.T) {
	storage := createTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, storage.SaveEvent(ctx, newEvent("old", types.OperationRepoInfo, types.EventStatusFailed, now.Add(-10*24*time.Hour))))
	require.NoError(t, storage.SaveEvent(ctx, newEvent("new", types.OperationRepoInfo, types.EventStatusSucceeded, now)))
	require.NoError(t, storage.SaveEvent(ctx, newEvent("br", types.OperationBranches, types.EventStatusSucceeded, now)))

	stats, err := storage.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEvents)
	assert.Equal(t, int64(1), stats.FailedEvents)
	assert.Equal(t, int64(2), stats.EventsByOperation[types.OperationRepoInfo])
	assert.False(t, stats.LastEventTime.IsZero())

	deleted, err := storage.DeleteOldEvents(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = storage.GetEvent(ctx, "old")
	assert.Error(t, err)
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory()

	s, err := factory.Create(&types.StorageConfig{Type: "sqlite", SQLite: types.SQLiteConfig{Path: ":memory:"}})
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	_, err = factory.Create(&types.StorageConfig{Type: "postgres"})
	var unsupported *UnsupportedStorageTypeError
	assert.True(t, errors.As(err, &unsupported))
}

func newMockStorage(t *testing.T) (*SQLiteStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStorageWithDB(db, &types.SQLiteConfig{Path: ":memory:"}), mock
}

func TestSQLiteStorage_DriverFailures(t *testing.T) {
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")

	t.Run("save event", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectExec("INSERT INTO request_events").WillReturnError(diskErr)

		err := storage.SaveEvent(ctx, newEvent("x", types.OperationCommits, types.EventStatusSucceeded, time.Now()))
		require.Error(t, err)
		assert.True(t, errors.Is(err, diskErr))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to duplicate", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectExec("INSERT INTO request_events").
			WillReturnError(errors.New("UNIQUE constraint failed: request_events.id"))

		err := storage.SaveEvent(ctx, newEvent("x", types.OperationCommits, types.EventStatusSucceeded, time.Now()))
		var dupErr *DuplicateEventError
		assert.True(t, errors.As(err, &dupErr))
	})

	t.Run("health check", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectPing().WillReturnError(diskErr)

		assert.Error(t, storage.HealthCheck(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("initialize fails on migration", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectPing()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnError(diskErr)

		err := storage.Initialize(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migrations")
	})

	t.Run("query events", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectQuery("SELECT (.+) FROM request_events ORDER BY").
			WithArgs(10, 0).
			WillReturnError(diskErr)

		_, err := storage.GetEvents(ctx, 10, 0)
		assert.True(t, errors.Is(err, diskErr))
	})

	t.Run("get event scans rows", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{
			"id", "operation", "status", "error_kind", "error_message", "duration_ms",
			"request_id", "metadata", "timestamp", "created_at",
		}).AddRow("abc", types.OperationSync, "succeeded", nil, nil, 3, "r1", `{"persisted":"false"}`, at, at)
		mock.ExpectQuery(`SELECT (.+) FROM request_events WHERE id = \?`).WithArgs("abc").WillReturnRows(rows)

		event, err := storage.GetEvent(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, types.OperationSync, event.Operation)
		assert.Empty(t, event.ErrorKind)
		assert.Equal(t, map[string]string{"persisted": "false"}, event.Metadata)
	})
}
