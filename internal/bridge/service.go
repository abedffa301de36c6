package bridge

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/johnnynv/gitea-bridge/internal/gitea"
	"github.com/johnnynv/gitea-bridge/internal/normalizer"
	"github.com/johnnynv/gitea-bridge/internal/stats"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
)

const (
	DefaultCommitLimit = 10
	DefaultBranch      = "main"
	DefaultIssueState  = "open"
	DefaultIssueType   = "all"

	// statsCommitLimit is the page size requested when folding statistics
	statsCommitLimit = 100
)

var (
	validIssueStates = []string{"open", "closed", "all"}
	validIssueTypes  = []string{"all", "issues", "pulls"}
)

// Upstream is the subset of the Gitea client the bridge depends on
type Upstream interface {
	GetRepository(ctx context.Context) (*gitea.Repository, error)
	ListCommits(ctx context.Context, opts gitea.CommitListOptions) ([]gitea.Commit, error)
	ListBranches(ctx context.Context) ([]gitea.Branch, error)
	ListIssues(ctx context.Context, opts gitea.IssueListOptions) ([]gitea.Issue, error)
}

// Journal records operation outcomes
type Journal interface {
	SaveEvent(ctx context.Context, event *types.Event) error
}

// Recorder counts operation outcomes, typically into metrics
type Recorder interface {
	ObserveOperation(operation, outcome string)
}

// CommitsQuery selects commits. A nil Limit means DefaultCommitLimit; any
// other value is forwarded to the upstream as is.
type CommitsQuery struct {
	Limit  *int
	Branch string
}

// IssuesQuery selects issues; empty fields take the defaults
type IssuesQuery struct {
	State string
	Type  string
}

// SyncResponse is returned by SyncEnvironmentalData
type SyncResponse struct {
	Message string
	Result  types.SyncResult
}

// Service implements the aggregation operations over one upstream repository
type Service struct {
	upstream Upstream
	sync     types.SyncConfig
	logs     *logger.Manager
	journal  Journal
	recorder Recorder
	now      func() time.Time
}

// Option customises a Service
type Option func(*Service)

// WithJournal records every operation outcome in j
func WithJournal(j Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// WithRecorder reports every operation outcome to r
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the aggregation service
func NewService(upstream Upstream, syncConfig types.SyncConfig, logs *logger.Manager, opts ...Option) *Service {
	s := &Service{
		upstream: upstream,
		sync:     syncConfig,
		logs:     logs,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetRepositoryInfo returns the normalized repository snapshot
func (s *Service) GetRepositoryInfo(ctx context.Context) (*types.RepositoryInfo, error) {
	var info types.RepositoryInfo
	err := s.run(ctx, types.OperationRepoInfo, nil, func(ctx context.Context) error {
		raw, err := s.upstream.GetRepository(ctx)
		if err != nil {
			return err
		}
		info, err = normalizer.ToRepositoryInfo(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetCommits returns commits on a branch, newest first as the upstream orders them
func (s *Service) GetCommits(ctx context.Context, query CommitsQuery) ([]types.CommitRecord, error) {
	limit := DefaultCommitLimit
	if query.Limit != nil {
		limit = *query.Limit
	}
	branch := query.Branch
	if branch == "" {
		branch = DefaultBranch
	}

	meta := map[string]string{"limit": strconv.Itoa(limit), "branch": branch}

	var records []types.CommitRecord
	err := s.run(ctx, types.OperationCommits, meta, func(ctx context.Context) error {
		raw, err := s.upstream.ListCommits(ctx, gitea.CommitListOptions{Limit: &limit, SHA: branch})
		if err != nil {
			return err
		}
		records, err = normalizer.ToCommitRecords(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetBranches returns the branches unique by name, first occurrence wins
func (s *Service) GetBranches(ctx context.Context) ([]types.BranchRecord, error) {
	var records []types.BranchRecord
	err := s.run(ctx, types.OperationBranches, nil, func(ctx context.Context) error {
		raw, err := s.upstream.ListBranches(ctx)
		if err != nil {
			return err
		}
		all, err := normalizer.ToBranchRecords(raw)
		if err != nil {
			return err
		}
		records = uniqueBranches(all)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetIssues returns issues and pull requests; filtering is done by the upstream
func (s *Service) GetIssues(ctx context.Context, query IssuesQuery) ([]types.IssueRecord, error) {
	state := query.State
	if state == "" {
		state = DefaultIssueState
	}
	issueType := query.Type
	if issueType == "" {
		issueType = DefaultIssueType
	}

	meta := map[string]string{"state": state, "type": issueType}

	var records []types.IssueRecord
	err := s.run(ctx, types.OperationIssues, meta, func(ctx context.Context) error {
		if !oneOf(validIssueStates, state) {
			return &InvalidInputError{Field: "state", Value: state, Reason: "must be one of open, closed, all"}
		}
		if !oneOf(validIssueTypes, issueType) {
			return &InvalidInputError{Field: "type", Value: issueType, Reason: "must be one of all, issues, pulls"}
		}

		raw, err := s.upstream.ListIssues(ctx, gitea.IssueListOptions{State: state, Type: issueType})
		if err != nil {
			return err
		}
		records, err = normalizer.ToIssueRecords(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetStatistics folds the commits of the trailing windowDays into per-author
// counters. A zero windowDays means stats.DefaultWindowDays.
func (s *Service) GetStatistics(ctx context.Context, windowDays int) (*types.StatsResult, error) {
	if windowDays == 0 {
		windowDays = stats.DefaultWindowDays
	}

	meta := map[string]string{"days": strconv.Itoa(windowDays)}

	var result types.StatsResult
	err := s.run(ctx, types.OperationStats, meta, func(ctx context.Context) error {
		if windowDays < 0 {
			return &InvalidInputError{Field: "days", Value: strconv.Itoa(windowDays), Reason: "must be positive"}
		}

		since := s.now().Add(-time.Duration(windowDays) * 24 * time.Hour)
		limit := statsCommitLimit
		raw, err := s.upstream.ListCommits(ctx, gitea.CommitListOptions{Limit: &limit, Since: &since})
		if err != nil {
			return err
		}
		commits, err := normalizer.ToCommitRecords(raw)
		if err != nil {
			return err
		}
		result = stats.Summarize(commits, windowDays)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SyncEnvironmentalData wraps payload in a sync envelope and hands it back.
// Nothing is written to any store or repository; the result says so.
// An absent payload is echoed as null.
func (s *Service) SyncEnvironmentalData(ctx context.Context, payload json.RawMessage, commitMessage string) (*SyncResponse, error) {
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	if commitMessage == "" {
		commitMessage = s.sync.DefaultCommitMessage
	}

	meta := map[string]string{
		"persisted":     "false",
		"payload_bytes": strconv.Itoa(len(payload)),
	}

	var response SyncResponse
	err := s.run(ctx, types.OperationSync, meta, func(ctx context.Context) error {
		if !json.Valid(payload) {
			return &InvalidInputError{Field: "data", Value: truncate(string(payload), 32), Reason: "must be a JSON value"}
		}

		response = SyncResponse{
			Message: "Environmental data accepted; nothing was committed or stored",
			Result: types.SyncResult{
				Envelope: types.SyncEnvelope{
					Timestamp: s.now().UTC(),
					Data:      payload,
					Source:    s.sync.Source,
					Version:   s.sync.Version,
				},
				CommitMessage: commitMessage,
				Persisted:     false,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// run times fn, logs the outcome, and records it in the journal and metrics
func (s *Service) run(ctx context.Context, operation string, meta map[string]string, fn func(context.Context) error) error {
	op := s.logs.StartOperation(ctx, "bridge", operation)
	started := s.now()

	err := fn(op.GetContext())

	fields := logger.Fields{}
	for k, v := range meta {
		fields[k] = v
	}

	event := &types.Event{
		ID:         uuid.NewString(),
		Operation:  operation,
		Status:     types.EventStatusSucceeded,
		DurationMs: op.Elapsed().Milliseconds(),
		RequestID:  logger.RequestIDFromContext(ctx),
		Metadata:   meta,
		Timestamp:  started.UTC(),
	}

	outcome := string(types.EventStatusSucceeded)
	if err != nil {
		kind := Kind(err)
		outcome = kind
		event.Status = types.EventStatusFailed
		event.ErrorKind = kind
		event.ErrorMessage = err.Error()
		fields["error_kind"] = kind
		op.Fail("Operation failed", err, fields)
		err = &OperationError{Operation: operation, Err: err}
	} else {
		op.Success("Operation completed", fields)
	}

	if s.recorder != nil {
		s.recorder.ObserveOperation(operation, outcome)
	}
	if s.journal != nil {
		// A journal failure never fails the caller's request.
		if jerr := s.journal.SaveEvent(context.WithoutCancel(ctx), event); jerr != nil {
			op.GetLogger().WithError(jerr).Warn("Failed to record operation in journal")
		}
	}

	return err
}

func uniqueBranches(records []types.BranchRecord) []types.BranchRecord {
	seen := make(map[string]bool, len(records))
	unique := make([]types.BranchRecord, 0, len(records))
	for _, r := range records {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		unique = append(unique, r)
	}
	return unique
}

func oneOf(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
