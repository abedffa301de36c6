package types

import (
	"time"
)

// EventStatus represents the outcome of a journaled operation
type EventStatus string

const (
	EventStatusSucceeded EventStatus = "succeeded"
	EventStatusFailed    EventStatus = "failed"
)

// Operation names recorded in the journal and used as metric labels
const (
	OperationRepoInfo = "repo_info"
	OperationCommits  = "commits"
	OperationBranches = "branches"
	OperationIssues   = "issues"
	OperationStats    = "stats"
	OperationSync     = "sync_environmental_data"
)

// Event is a journal entry describing one aggregation call.
// Payloads and upstream responses are never recorded.
type Event struct {
	ID           string            `json:"id" db:"id"`
	Operation    string            `json:"operation" db:"operation"`
	Status       EventStatus       `json:"status" db:"status"`
	ErrorKind    string            `json:"error_kind,omitempty" db:"error_kind"`
	ErrorMessage string            `json:"error_message,omitempty" db:"error_message"`
	DurationMs   int64             `json:"duration_ms" db:"duration_ms"`
	RequestID    string            `json:"request_id,omitempty" db:"request_id"`
	Metadata     map[string]string `json:"metadata,omitempty" db:"metadata"`
	Timestamp    time.Time         `json:"timestamp" db:"timestamp"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}
