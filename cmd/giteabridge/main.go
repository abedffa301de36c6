package main

import (
	"fmt"
	"os"

	"github.com/johnnynv/gitea-bridge/internal/api"
)

var (
	// Build information (set by ldflags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	api.Version, api.BuildTime, api.GitCommit = Version, BuildTime, GitCommit

	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
