package storage

import (
	"context"
	"time"

	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// Storage persists the request journal: one event per aggregation call.
// Payloads and upstream responses never reach it.
type Storage interface {
	// Lifecycle operations
	Initialize(ctx context.Context) error
	Close() error
	HealthCheck(ctx context.Context) error

	// Event operations
	SaveEvent(ctx context.Context, event *types.Event) error
	GetEvent(ctx context.Context, eventID string) (*types.Event, error)
	GetEvents(ctx context.Context, limit, offset int) ([]*types.Event, error)
	GetEventsByOperation(ctx context.Context, operation string, limit int) ([]*types.Event, error)
	GetEventsSince(ctx context.Context, since time.Time) ([]*types.Event, error)
	DeleteOldEvents(ctx context.Context, before time.Time) (int64, error)

	// Statistics operations
	GetStats(ctx context.Context) (*StorageStats, error)
}

// StorageStats summarises the journal
type StorageStats struct {
	TotalEvents       int64            `json:"total_events"`
	FailedEvents      int64            `json:"failed_events"`
	EventsByOperation map[string]int64 `json:"events_by_operation"`
	LastEventTime     time.Time        `json:"last_event_time,omitempty"`
	DatabaseSize      int64            `json:"database_size_bytes,omitempty"`
}

// Factory creates storage instances based on configuration
type Factory struct{}

// NewFactory creates a new storage factory
func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a storage instance based on configuration
func (f *Factory) Create(config *types.StorageConfig) (Storage, error) {
	switch config.Type {
	case "sqlite":
		return NewSQLiteStorage(&config.SQLite)
	default:
		return nil, &UnsupportedStorageTypeError{Type: config.Type}
	}
}

// Storage errors
type UnsupportedStorageTypeError struct {
	Type string
}

func (e *UnsupportedStorageTypeError) Error() string {
	return "unsupported storage type: " + e.Type
}

type EventNotFoundError struct {
	EventID string
}

func (e *EventNotFoundError) Error() string {
	return "event not found: " + e.EventID
}

type DuplicateEventError struct {
	EventID string
}

func (e *DuplicateEventError) Error() string {
	return "event already exists: " + e.EventID
}
