// Package stats derives per-author development statistics from commit listings.
package stats

import (
	"fmt"

	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// DefaultWindowDays is the trailing window used when the caller gives none
const DefaultWindowDays = 30

// ComputeAuthorStats folds commits into per-author counters in a single pass.
// Commits without stats still count towards the author's commit total.
func ComputeAuthorStats(commits []types.CommitRecord) types.AuthorStatistics {
	result := make(types.AuthorStatistics)

	for _, commit := range commits {
		counters, ok := result[commit.AuthorName]
		if !ok {
			counters = &types.AuthorCounters{}
			result[commit.AuthorName] = counters
		}

		counters.Commits++
		if commit.Stats != nil {
			counters.Additions += commit.Stats.Additions
			counters.Deletions += commit.Stats.Deletions
		}
	}

	return result
}

// Summarize builds the statistics result for commits fetched over windowDays.
// Commits are expected newest first, so the first one dates the latest activity.
func Summarize(commits []types.CommitRecord, windowDays int) types.StatsResult {
	result := types.StatsResult{
		TotalCommits: len(commits),
		PeriodLabel:  PeriodLabel(windowDays),
		AuthorStats:  ComputeAuthorStats(commits),
	}

	if len(commits) > 0 {
		last := commits[0].AuthoredAt
		result.LastCommitAt = &last
	}

	return result
}

// PeriodLabel renders the human-readable window, e.g. "last 30 days"
func PeriodLabel(windowDays int) string {
	if windowDays == 1 {
		return "last 1 day"
	}
	return fmt.Sprintf("last %d days", windowDays)
}
