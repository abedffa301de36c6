package storage

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// eventColumns is the column order shared by every event query
const eventColumns = `id, operation, status, error_kind, error_message, duration_ms,
	request_id, metadata, timestamp, created_at`

// SQLiteEvent represents a journal row
type SQLiteEvent struct {
	ID           string         `db:"id"`
	Operation    string         `db:"operation"`
	Status       string         `db:"status"`
	ErrorKind    sql.NullString `db:"error_kind"`
	ErrorMessage sql.NullString `db:"error_message"`
	DurationMs   int64          `db:"duration_ms"`
	RequestID    sql.NullString `db:"request_id"`
	Metadata     MetadataJSON   `db:"metadata"`
	Timestamp    time.Time      `db:"timestamp"`
	CreatedAt    time.Time      `db:"created_at"`
}

// scanTargets returns pointers in eventColumns order
func (e *SQLiteEvent) scanTargets() []interface{} {
	return []interface{}{
		&e.ID, &e.Operation, &e.Status, &e.ErrorKind, &e.ErrorMessage, &e.DurationMs,
		&e.RequestID, &e.Metadata, &e.Timestamp, &e.CreatedAt,
	}
}

// ToEvent converts SQLiteEvent to types.Event
func (e *SQLiteEvent) ToEvent() *types.Event {
	event := &types.Event{
		ID:           e.ID,
		Operation:    e.Operation,
		Status:       types.EventStatus(e.Status),
		ErrorKind:    e.ErrorKind.String,
		ErrorMessage: e.ErrorMessage.String,
		DurationMs:   e.DurationMs,
		RequestID:    e.RequestID.String,
		Timestamp:    e.Timestamp.UTC(),
		CreatedAt:    e.CreatedAt.UTC(),
	}
	if len(e.Metadata) > 0 {
		event.Metadata = map[string]string(e.Metadata)
	}
	return event
}

// FromEvent converts types.Event to SQLiteEvent
func (e *SQLiteEvent) FromEvent(event *types.Event) {
	e.ID = event.ID
	e.Operation = event.Operation
	e.Status = string(event.Status)
	e.ErrorKind = nullString(event.ErrorKind)
	e.ErrorMessage = nullString(event.ErrorMessage)
	e.DurationMs = event.DurationMs
	e.RequestID = nullString(event.RequestID)
	e.Metadata = MetadataJSON(event.Metadata)
	e.Timestamp = event.Timestamp.UTC()
	e.CreatedAt = event.CreatedAt.UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// MetadataJSON handles JSON serialization for metadata
type MetadataJSON map[string]string

// Value implements driver.Valuer interface for database storage
func (m MetadataJSON) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	return string(data), nil
}

// Scan implements sql.Scanner interface for database retrieval
func (m *MetadataJSON) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into MetadataJSON", value)
	}

	if len(data) == 0 {
		*m = nil
		return nil
	}

	var result map[string]string
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	*m = MetadataJSON(result)
	return nil
}

// sqliteTimeLayouts are the text forms SQLite hands back for aggregate time columns
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func parseSQLiteTime(s string) (time.Time, bool) {
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
