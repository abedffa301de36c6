package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/johnnynv/gitea-bridge/internal/bridge"
	"github.com/johnnynv/gitea-bridge/internal/metrics"
	"github.com/johnnynv/gitea-bridge/internal/storage"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// Aggregator is the set of operations exposed under /api/gitea
type Aggregator interface {
	GetRepositoryInfo(ctx context.Context) (*types.RepositoryInfo, error)
	GetCommits(ctx context.Context, query bridge.CommitsQuery) ([]types.CommitRecord, error)
	GetBranches(ctx context.Context) ([]types.BranchRecord, error)
	GetIssues(ctx context.Context, query bridge.IssuesQuery) ([]types.IssueRecord, error)
	GetStatistics(ctx context.Context, windowDays int) (*types.StatsResult, error)
	SyncEnvironmentalData(ctx context.Context, payload json.RawMessage, commitMessage string) (*bridge.SyncResponse, error)
}

// UpstreamProber checks that the upstream answers, for readiness
type UpstreamProber interface {
	GetVersion(ctx context.Context) (string, error)
	Authenticated() bool
}

// ServerConfig holds the settings the API server needs
type ServerConfig struct {
	Port        int
	UpstreamURL string
	// ReadinessTimeout bounds the upstream probe behind /health/ready
	ReadinessTimeout time.Duration
}

// Server represents the HTTP API server
type Server struct {
	config   ServerConfig
	server   *http.Server
	listener net.Listener
	serveErr chan error

	bridge  Aggregator
	prober  UpstreamProber
	storage storage.Storage
	metrics *metrics.Collector
	runtime RuntimeProvider
	logger  *logger.Entry

	syncValidator *syncRequestValidator
}

// ServerOption customises a Server
type ServerOption func(*Server)

// WithStorage enables the /api/events endpoints
func WithStorage(s storage.Storage) ServerOption {
	return func(srv *Server) {
		srv.storage = s
	}
}

// WithMetrics enables /metrics and request instrumentation
func WithMetrics(c *metrics.Collector) ServerOption {
	return func(srv *Server) {
		srv.metrics = c
	}
}

// WithUpstreamProber makes /health/ready check the upstream
func WithUpstreamProber(p UpstreamProber) ServerOption {
	return func(srv *Server) {
		srv.prober = p
	}
}

// NewServer creates a new API server
func NewServer(config ServerConfig, aggregator Aggregator, parentLogger *logger.Entry, opts ...ServerOption) (*Server, error) {
	if aggregator == nil {
		return nil, errors.New("aggregator is required")
	}
	if config.ReadinessTimeout <= 0 {
		config.ReadinessTimeout = 5 * time.Second
	}

	validator, err := newSyncRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile sync request schema: %w", err)
	}

	s := &Server{
		config: config,
		bridge: aggregator,
		logger: parentLogger.WithFields(logger.Fields{
			"component": "api",
			"module":    "server",
			"port":      config.Port,
		}),
		syncValidator: validator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetRuntime sets the runtime provider (called after creation)
func (s *Server) SetRuntime(runtime RuntimeProvider) {
	s.runtime = runtime
}

// Handler returns the fully wired HTTP handler
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.WithFields(logger.Fields{
		"operation": "start",
		"addr":      s.server.Addr,
	}).Info("Starting API server")

	// A busy port must fail Start, not the serve goroutine.
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.listener = listener
	s.serveErr = make(chan error, 1)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithFields(logger.Fields{
				"operation": "serve",
				"error":     err.Error(),
			}).Error("API server stopped unexpectedly")
			s.serveErr <- err
		}
	}()

	s.logger.WithFields(logger.Fields{
		"operation": "start",
		"addr":      listener.Addr().String(),
	}).Info("API server started successfully")

	return nil
}

// Err delivers the error that ended serving, if serving ends for any
// reason other than Stop. It is nil before Start.
func (s *Server) Err() <-chan error {
	return s.serveErr
}

// Addr returns the bound address, or "" before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.WithFields(logger.Fields{
		"operation": "stop",
	}).Info("Stopping API server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown API server: %w", err)
	}

	s.logger.WithFields(logger.Fields{
		"operation": "stop",
	}).Info("API server stopped successfully")

	return nil
}

// Health returns the server health status
func (s *Server) Health(ctx context.Context) error {
	if s.server == nil {
		return errors.New("API server not started")
	}
	return nil
}
