// Package normalizer projects upstream Gitea payloads onto the bridge's
// record types. Projections are strict: a missing required field is an
// error, never a zero value.
package normalizer

import (
	"fmt"
	"time"

	"github.com/johnnynv/gitea-bridge/internal/gitea"
	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// NormalizationError reports a required field missing from an upstream payload
type NormalizationError struct {
	Entity string
	Field  string
	// Index is the element position for list payloads, -1 otherwise
	Index  int
	Reason string
}

func (e *NormalizationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing required field"
	}
	if e.Index >= 0 {
		return fmt.Sprintf("invalid upstream %s at index %d: %s %q", e.Entity, e.Index, reason, e.Field)
	}
	return fmt.Sprintf("invalid upstream %s: %s %q", e.Entity, reason, e.Field)
}

func missing(entity, field string) *NormalizationError {
	return &NormalizationError{Entity: entity, Field: field, Index: -1}
}

func invalid(entity, field, reason string) *NormalizationError {
	return &NormalizationError{Entity: entity, Field: field, Index: -1, Reason: reason}
}

func parseTime(entity, field string, value *string) (time.Time, error) {
	if value == nil {
		return time.Time{}, missing(entity, field)
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return time.Time{}, invalid(entity, field, "unparseable timestamp in field")
	}
	return t, nil
}

// ToRepositoryInfo projects the upstream repository payload
func ToRepositoryInfo(raw *gitea.Repository) (types.RepositoryInfo, error) {
	const entity = "repository"
	if raw == nil {
		return types.RepositoryInfo{}, missing(entity, "repository")
	}

	switch {
	case raw.Name == nil:
		return types.RepositoryInfo{}, missing(entity, "name")
	case raw.StarsCount == nil:
		return types.RepositoryInfo{}, missing(entity, "stars_count")
	case raw.ForksCount == nil:
		return types.RepositoryInfo{}, missing(entity, "forks_count")
	case raw.CloneURL == nil:
		return types.RepositoryInfo{}, missing(entity, "clone_url")
	case raw.Size == nil:
		return types.RepositoryInfo{}, missing(entity, "size")
	}

	if *raw.StarsCount < 0 {
		return types.RepositoryInfo{}, invalid(entity, "stars_count", "negative count in field")
	}
	if *raw.ForksCount < 0 {
		return types.RepositoryInfo{}, invalid(entity, "forks_count", "negative count in field")
	}
	if *raw.Size < 0 {
		return types.RepositoryInfo{}, invalid(entity, "size", "negative size in field")
	}

	updatedAt, err := parseTime(entity, "updated_at", raw.UpdatedAt)
	if err != nil {
		return types.RepositoryInfo{}, err
	}

	info := types.RepositoryInfo{
		Name:          *raw.Name,
		StarCount:     *raw.StarsCount,
		ForkCount:     *raw.ForksCount,
		LastUpdatedAt: updatedAt,
		CloneURL:      *raw.CloneURL,
		SizeKB:        *raw.Size,
	}
	if raw.Description != nil {
		description := *raw.Description
		info.Description = &description
	}
	return info, nil
}

// ToCommitRecord projects one upstream commit
func ToCommitRecord(raw gitea.Commit) (types.CommitRecord, error) {
	const entity = "commit"

	switch {
	case raw.SHA == nil:
		return types.CommitRecord{}, missing(entity, "sha")
	case raw.Commit == nil:
		return types.CommitRecord{}, missing(entity, "commit")
	case raw.Commit.Message == nil:
		return types.CommitRecord{}, missing(entity, "commit.message")
	case raw.Commit.Author == nil:
		return types.CommitRecord{}, missing(entity, "commit.author")
	case raw.Commit.Author.Name == nil:
		return types.CommitRecord{}, missing(entity, "commit.author.name")
	case raw.HTMLURL == nil:
		return types.CommitRecord{}, missing(entity, "html_url")
	}

	authoredAt, err := parseTime(entity, "commit.author.date", raw.Commit.Author.Date)
	if err != nil {
		return types.CommitRecord{}, err
	}

	record := types.CommitRecord{
		ID:         *raw.SHA,
		Message:    *raw.Commit.Message,
		AuthorName: *raw.Commit.Author.Name,
		AuthoredAt: authoredAt,
		URL:        *raw.HTMLURL,
	}
	if raw.Stats != nil {
		stats := &types.CommitStats{}
		if raw.Stats.Additions != nil {
			stats.Additions = *raw.Stats.Additions
		}
		if raw.Stats.Deletions != nil {
			stats.Deletions = *raw.Stats.Deletions
		}
		record.Stats = stats
	}
	return record, nil
}

// ToCommitRecords maps element-wise and keeps upstream order
func ToCommitRecords(raw []gitea.Commit) ([]types.CommitRecord, error) {
	records := make([]types.CommitRecord, 0, len(raw))
	for i, c := range raw {
		record, err := ToCommitRecord(c)
		if err != nil {
			return nil, atIndex(err, i)
		}
		records = append(records, record)
	}
	return records, nil
}

// ToBranchRecord projects one upstream branch; a missing protected flag reads as false
func ToBranchRecord(raw gitea.Branch) (types.BranchRecord, error) {
	const entity = "branch"

	switch {
	case raw.Name == nil:
		return types.BranchRecord{}, missing(entity, "name")
	case raw.Commit == nil || raw.Commit.ID == nil:
		return types.BranchRecord{}, missing(entity, "commit.id")
	}

	record := types.BranchRecord{
		Name:         *raw.Name,
		HeadCommitID: *raw.Commit.ID,
	}
	if raw.Protected != nil {
		record.IsProtected = *raw.Protected
	}
	return record, nil
}

// ToBranchRecords maps element-wise and keeps upstream order
func ToBranchRecords(raw []gitea.Branch) ([]types.BranchRecord, error) {
	records := make([]types.BranchRecord, 0, len(raw))
	for i, b := range raw {
		record, err := ToBranchRecord(b)
		if err != nil {
			return nil, atIndex(err, i)
		}
		records = append(records, record)
	}
	return records, nil
}

// ToIssueRecord projects one upstream issue or pull request
func ToIssueRecord(raw gitea.Issue) (types.IssueRecord, error) {
	const entity = "issue"

	switch {
	case raw.ID == nil:
		return types.IssueRecord{}, missing(entity, "id")
	case raw.Title == nil:
		return types.IssueRecord{}, missing(entity, "title")
	case raw.State == nil:
		return types.IssueRecord{}, missing(entity, "state")
	case raw.User == nil || raw.User.Login == nil:
		return types.IssueRecord{}, missing(entity, "user.login")
	}

	state := types.IssueState(*raw.State)
	if state != types.IssueStateOpen && state != types.IssueStateClosed {
		return types.IssueRecord{}, invalid(entity, "state", "unknown value in field")
	}

	createdAt, err := parseTime(entity, "created_at", raw.CreatedAt)
	if err != nil {
		return types.IssueRecord{}, err
	}
	updatedAt, err := parseTime(entity, "updated_at", raw.UpdatedAt)
	if err != nil {
		return types.IssueRecord{}, err
	}

	record := types.IssueRecord{
		ID:            *raw.ID,
		Title:         *raw.Title,
		State:         state,
		AuthorLogin:   *raw.User.Login,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
		Labels:        labelNames(raw.Labels),
		IsPullRequest: isPresent(raw.PullRequest),
	}
	if raw.Body != nil {
		body := *raw.Body
		record.Body = &body
	}
	return record, nil
}

// ToIssueRecords maps element-wise and keeps upstream order
func ToIssueRecords(raw []gitea.Issue) ([]types.IssueRecord, error) {
	records := make([]types.IssueRecord, 0, len(raw))
	for i, issue := range raw {
		record, err := ToIssueRecord(issue)
		if err != nil {
			return nil, atIndex(err, i)
		}
		records = append(records, record)
	}
	return records, nil
}

// labelNames returns label names in first-seen order without duplicates
func labelNames(labels []gitea.Label) []string {
	names := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l.Name == nil {
			continue
		}
		if _, dup := seen[*l.Name]; dup {
			continue
		}
		seen[*l.Name] = struct{}{}
		names = append(names, *l.Name)
	}
	return names
}

func isPresent(raw []byte) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func atIndex(err error, i int) error {
	if ne, ok := err.(*NormalizationError); ok {
		copied := *ne
		copied.Index = i
		return &copied
	}
	return err
}
