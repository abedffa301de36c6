package api

import (
	"fmt"
	"runtime"
)

// ServiceName identifies the bridge in /health, version output and the upstream User-Agent
const ServiceName = "gitea-bridge"

// Version information, set at build time with -ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// APIVersion describes the running build
type APIVersion struct {
	Service string `json:"service"`
	API     string `json:"api_version"`
	App     string `json:"app_version"`
	Build   string `json:"build_time"`
	Commit  string `json:"git_commit"`
	Runtime string `json:"go_version"`
}

// UserAgent is sent on upstream calls when the configuration sets none
func UserAgent() string {
	return ServiceName + "/" + Version
}

// GetVersion returns version information
func GetVersion() APIVersion {
	return APIVersion{
		Service: ServiceName,
		API:     "v1",
		App:     Version,
		Build:   BuildTime,
		Commit:  GitCommit,
		Runtime: runtime.Version(),
	}
}

// String renders the version on one line, e.g. "gitea-bridge dev (unknown, go1.24.6)"
func (v APIVersion) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", v.Service, v.App, v.Commit, v.Runtime)
}
