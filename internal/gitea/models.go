package gitea

import "encoding/json"

// The types below mirror the Gitea v1 REST schema. Fields are pointers so
// that a missing required field can be told apart from a zero value.

// Repository is the upstream /repos/{owner}/{repo} payload
type Repository struct {
	Name        *string `json:"name"`
	FullName    *string `json:"full_name"`
	Description *string `json:"description"`
	StarsCount  *int    `json:"stars_count"`
	ForksCount  *int    `json:"forks_count"`
	UpdatedAt   *string `json:"updated_at"`
	CloneURL    *string `json:"clone_url"`
	Size        *int64  `json:"size"`
}

// Commit is one element of /repos/{owner}/{repo}/commits
type Commit struct {
	SHA     *string       `json:"sha"`
	HTMLURL *string       `json:"html_url"`
	Commit  *CommitDetail `json:"commit"`
	Stats   *CommitStats  `json:"stats"`
}

// CommitDetail is the nested git commit object
type CommitDetail struct {
	Message *string     `json:"message"`
	Author  *CommitUser `json:"author"`
}

// CommitUser is the git author signature
type CommitUser struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Date  *string `json:"date"`
}

// CommitStats carries line counts when the upstream includes them
type CommitStats struct {
	Total     *int `json:"total"`
	Additions *int `json:"additions"`
	Deletions *int `json:"deletions"`
}

// Branch is one element of /repos/{owner}/{repo}/branches
type Branch struct {
	Name      *string       `json:"name"`
	Commit    *BranchCommit `json:"commit"`
	Protected *bool         `json:"protected"`
}

// BranchCommit is the head commit reference of a branch
type BranchCommit struct {
	ID *string `json:"id"`
}

// Issue is one element of /repos/{owner}/{repo}/issues
type Issue struct {
	ID          *int64          `json:"id"`
	Number      *int64          `json:"number"`
	Title       *string         `json:"title"`
	Body        *string         `json:"body"`
	State       *string         `json:"state"`
	User        *User           `json:"user"`
	CreatedAt   *string         `json:"created_at"`
	UpdatedAt   *string         `json:"updated_at"`
	Labels      []Label         `json:"labels"`
	PullRequest json.RawMessage `json:"pull_request"`
}

// User is an upstream account reference
type User struct {
	Login *string `json:"login"`
}

// Label is an issue label
type Label struct {
	Name *string `json:"name"`
}

// ServerVersion is the /version payload
type ServerVersion struct {
	Version string `json:"version"`
}
