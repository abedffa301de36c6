package gitea

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// CommitListOptions are forwarded as query parameters to the commits endpoint
type CommitListOptions struct {
	Limit *int
	SHA   string
	Since *time.Time
}

// IssueListOptions are forwarded as query parameters to the issues endpoint
type IssueListOptions struct {
	State string
	Type  string
}

// GetRepository fetches the repository metadata
func (c *Client) GetRepository(ctx context.Context) (*Repository, error) {
	var repo Repository
	err := c.Do(ctx, Request{Operation: "get_repository", Path: c.repoPath("")}, &repo)
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

// ListCommits lists commits newest first. Limit is passed through untouched.
func (c *Client) ListCommits(ctx context.Context, opts CommitListOptions) ([]Commit, error) {
	query := url.Values{}
	if opts.Limit != nil {
		query.Set("limit", strconv.Itoa(*opts.Limit))
	}
	if opts.SHA != "" {
		query.Set("sha", opts.SHA)
	}
	if opts.Since != nil {
		query.Set("since", opts.Since.UTC().Format(time.RFC3339))
	}

	var commits []Commit
	err := c.Do(ctx, Request{Operation: "list_commits", Path: c.repoPath("/commits"), Query: query}, &commits)
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// ListBranches lists the repository branches
func (c *Client) ListBranches(ctx context.Context) ([]Branch, error) {
	var branches []Branch
	err := c.Do(ctx, Request{Operation: "list_branches", Path: c.repoPath("/branches")}, &branches)
	if err != nil {
		return nil, err
	}
	return branches, nil
}

// ListIssues lists issues; filtering by state and type happens upstream
func (c *Client) ListIssues(ctx context.Context, opts IssueListOptions) ([]Issue, error) {
	query := url.Values{}
	if opts.State != "" {
		query.Set("state", opts.State)
	}
	if opts.Type != "" {
		query.Set("type", opts.Type)
	}

	var issues []Issue
	err := c.Do(ctx, Request{Operation: "list_issues", Path: c.repoPath("/issues"), Query: query}, &issues)
	if err != nil {
		return nil, err
	}
	return issues, nil
}

// GetVersion returns the upstream server version, used as a reachability probe
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	var v ServerVersion
	if err := c.Do(ctx, Request{Operation: "get_version", Path: "/version"}, &v); err != nil {
		return "", err
	}
	return v.Version, nil
}
