package api

// @title Gitea Bridge API
// @version 1.0
// @description Reads repository metadata, commits, branches and issues from a Gitea instance
// @description and serves them in a stable shape, with per-author statistics.

// @contact.name Gitea Bridge Maintainers
// @contact.url https://github.com/johnnynv/gitea-bridge

// @license.name MIT
// @license.url https://github.com/johnnynv/gitea-bridge/blob/main/LICENSE

// @host localhost:3001
// @BasePath /

// @schemes http https

// @tag.name Gitea
// @tag.description Normalized data from the upstream Gitea repository

// @tag.name Health
// @tag.description Health check and readiness endpoints

// @tag.name Events
// @tag.description Request journal

// @tag.name System
// @tag.description Service index, status and version
