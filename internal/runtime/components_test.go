package runtime

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/gitea-bridge/internal/config"
	"github.com/johnnynv/gitea-bridge/internal/storage"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
)

func testLogs() *logger.Manager {
	return logger.NewManagerWithLogger(logger.NewLoggerWithWriter(logger.Config{Level: "error", Format: "json"}, io.Discard))
}

func testEntry() *logger.Entry {
	return testLogs().ForComponent("runtime")
}

func memoryStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(&types.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	return store
}

func TestBaseComponent_GetStatus(t *testing.T) {
	var c BaseComponent
	c.init("probe", testEntry())

	status := c.GetStatus()
	assert.Equal(t, "probe", status.Name)
	assert.Equal(t, ComponentStateUnknown, status.State)
	assert.Equal(t, HealthStateUnknown, status.Health)
	assert.True(t, status.StartedAt.IsZero())

	c.markStarting()
	c.setState(ComponentStateRunning)
	status = c.GetStatus()
	assert.Equal(t, HealthStateHealthy, status.Health)
	assert.False(t, status.StartedAt.IsZero())

	c.setError(errors.New("disk full"))
	status = c.GetStatus()
	assert.Equal(t, ComponentStateError, status.State)
	assert.Equal(t, HealthStateUnhealthy, status.Health)
	assert.Equal(t, "disk full", status.LastError)
}

func TestConfigComponent(t *testing.T) {
	logs := testLogs()

	t.Run("not loaded", func(t *testing.T) {
		c := NewConfigComponent(config.NewManager(logs.GetRootLogger()), testEntry())
		assert.Error(t, c.Start(context.Background()))
		assert.Equal(t, ComponentStateError, c.GetStatus().State)
	})

	t.Run("loaded", func(t *testing.T) {
		manager := config.NewManager(logs.GetRootLogger())
		manager.SetConfig(config.DefaultConfig())

		c := NewConfigComponent(manager, testEntry())
		require.NoError(t, c.Start(context.Background()))
		assert.NoError(t, c.Health(context.Background()))
		assert.Equal(t, ComponentStateRunning, c.GetStatus().State)

		require.NoError(t, c.Stop(context.Background()))
		assert.Equal(t, ComponentStateStopped, c.GetStatus().State)
	})
}

func TestStorageComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewStorageComponent(memoryStorage(t), 0, testEntry())

	require.NoError(t, c.Start(ctx))
	assert.NoError(t, c.Health(ctx))
	assert.Equal(t, ComponentStateRunning, c.GetStatus().State)

	stats, err := c.Storage().GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEvents)

	require.NoError(t, c.Stop(ctx))
	assert.Equal(t, ComponentStateStopped, c.GetStatus().State)
	assert.Error(t, c.Health(ctx))
}

func TestStorageComponent_ZeroRetentionRunReturns(t *testing.T) {
	c := NewStorageComponent(memoryStorage(t), 0, testEntry())

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run should return at once without retention")
	}
}

func TestStorageComponent_Prune(t *testing.T) {
	ctx := context.Background()
	store := memoryStorage(t)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	c := NewStorageComponent(store, 24*time.Hour, testEntry(),
		WithStorageClock(func() time.Time { return now }),
		WithRetentionInterval(time.Hour),
	)
	require.NoError(t, c.Start(ctx))
	defer c.Stop(ctx)

	for id, ts := range map[string]time.Time{
		"old":    now.Add(-48 * time.Hour),
		"recent": now.Add(-time.Hour),
	} {
		require.NoError(t, store.SaveEvent(ctx, &types.Event{
			ID:        id,
			Operation: types.OperationBranches,
			Status:    types.EventStatusSucceeded,
			Timestamp: ts,
		}))
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- c.Run(runCtx) }()

	require.Eventually(t, func() bool {
		_, err := store.GetEvent(ctx, "old")
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	_, err := store.GetEvent(ctx, "recent")
	assert.NoError(t, err)

	var notFound *storage.EventNotFoundError
	_, err = store.GetEvent(ctx, "old")
	assert.ErrorAs(t, err, &notFound)
}

func TestStorageComponent_PruneFailureKeepsRunning(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM request_events").WillReturnError(errors.New("database is locked"))
	mock.ExpectExec("DELETE FROM request_events").WillReturnResult(sqlmock.NewResult(0, 3))

	store := storage.NewSQLiteStorageWithDB(db, &types.SQLiteConfig{Path: ":memory:"})
	c := NewStorageComponent(store, time.Hour, testEntry(), WithRetentionInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool {
		return mock.ExpectationsWereMet() == nil
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
