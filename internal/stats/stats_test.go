package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/gitea-bridge/pkg/types"
)

func TestSummarize_Empty(t *testing.T) {
	result := Summarize(nil, DefaultWindowDays)

	assert.Equal(t, 0, result.TotalCommits)
	assert.Empty(t, result.AuthorStats)
	assert.NotNil(t, result.AuthorStats)
	assert.Nil(t, result.LastCommitAt)
	assert.Equal(t, "last 30 days", result.PeriodLabel)
}

func TestSummarize_FoldsPerAuthor(t *testing.T) {
	first := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	commits := []types.CommitRecord{
		{AuthorName: "A", AuthoredAt: first, Stats: &types.CommitStats{Additions: 5, Deletions: 2}},
		{AuthorName: "A", AuthoredAt: first.Add(-time.Hour), Stats: &types.CommitStats{Additions: 1, Deletions: 0}},
		{AuthorName: "B", AuthoredAt: first.Add(-2 * time.Hour)},
	}

	result := Summarize(commits, 30)

	assert.Equal(t, 3, result.TotalCommits)
	assert.Equal(t, types.AuthorStatistics{
		"A": {Commits: 2, Additions: 6, Deletions: 2},
		"B": {Commits: 1, Additions: 0, Deletions: 0},
	}, result.AuthorStats)
	require.NotNil(t, result.LastCommitAt)
	assert.True(t, result.LastCommitAt.Equal(first))
}

func TestSummarize_LastCommitIsFirstElement(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)

	// Order is taken as given, even when it is not newest first.
	result := Summarize([]types.CommitRecord{
		{AuthorName: "A", AuthoredAt: older},
		{AuthorName: "A", AuthoredAt: newer},
	}, 7)

	require.NotNil(t, result.LastCommitAt)
	assert.True(t, result.LastCommitAt.Equal(older))
	assert.Equal(t, "last 7 days", result.PeriodLabel)
}

func TestComputeAuthorStats_Deterministic(t *testing.T) {
	commits := []types.CommitRecord{
		{AuthorName: "A", Stats: &types.CommitStats{Additions: 3}},
		{AuthorName: "B", Stats: &types.CommitStats{Deletions: 4}},
		{AuthorName: "A"},
	}

	assert.Equal(t, ComputeAuthorStats(commits), ComputeAuthorStats(commits))

	sum := 0
	for _, c := range ComputeAuthorStats(commits) {
		sum += c.Commits
	}
	assert.Equal(t, len(commits), sum)
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "last 1 day", PeriodLabel(1))
	assert.Equal(t, "last 90 days", PeriodLabel(90))
}
