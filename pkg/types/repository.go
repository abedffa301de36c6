package types

import (
	"encoding/json"
	"time"
)

// RepositoryInfo is the normalized snapshot of the upstream repository
type RepositoryInfo struct {
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	StarCount     int       `json:"starCount"`
	ForkCount     int       `json:"forkCount"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	CloneURL      string    `json:"cloneUrl"`
	SizeKB        int64     `json:"sizeKb"`
}

// CommitStats holds line changes reported for a commit
type CommitStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// CommitRecord represents a single commit, newest first in listings
type CommitRecord struct {
	ID         string       `json:"id"`
	Message    string       `json:"message"`
	AuthorName string       `json:"authorName"`
	AuthoredAt time.Time    `json:"authoredAt"`
	URL        string       `json:"url"`
	Stats      *CommitStats `json:"stats,omitempty"`
}

// BranchRecord represents a Git branch
type BranchRecord struct {
	Name         string `json:"name"`
	HeadCommitID string `json:"headCommitId"`
	IsProtected  bool   `json:"isProtected"`
}

// IssueState is the lifecycle state of an issue or pull request
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// IssueRecord represents an issue or pull request
type IssueRecord struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Body          *string    `json:"body"`
	State         IssueState `json:"state"`
	AuthorLogin   string     `json:"authorLogin"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Labels        []string   `json:"labels"`
	IsPullRequest bool       `json:"isPullRequest"`
}

// AuthorCounters accumulates per-author activity
type AuthorCounters struct {
	Commits   int `json:"commits"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// AuthorStatistics maps author name to its counters
type AuthorStatistics map[string]*AuthorCounters

// StatsResult is the development statistics over a trailing window
type StatsResult struct {
	TotalCommits int              `json:"totalCommits"`
	PeriodLabel  string           `json:"periodLabel"`
	AuthorStats  AuthorStatistics `json:"authorStats"`
	LastCommitAt *time.Time       `json:"lastCommitAt,omitempty"`
}

// SyncEnvelope wraps environmental data handed to the sync operation.
// It is returned to the caller as-is and never written anywhere.
type SyncEnvelope struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Source    string          `json:"source"`
	Version   string          `json:"version"`
}

// SyncResult is the outcome of a sync request
type SyncResult struct {
	Envelope      SyncEnvelope `json:"data"`
	CommitMessage string       `json:"commitMessage"`
	Persisted     bool         `json:"persisted"`
}
