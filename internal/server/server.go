// Package server implements HTTP server for health checks and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HealthChecker interface for checking component health.
type HealthChecker interface {
	Liveness() bool
	Readiness(ctx context.Context) bool
	GetStatus() map[string]string
}

// Options configures the health and metrics listeners.
// A listener with a zero port is not started.
type Options struct {
	HealthPort    int
	LivenessPath  string
	ReadinessPath string
	MetricsPort   int
	MetricsPath   string
}

// Server represents the HTTP server for health and metrics.
type Server struct {
	healthServer  *http.Server
	metricsServer *http.Server
	logger        *zap.Logger
}

// NewServer creates a new HTTP server.
func NewServer(
	opts Options,
	healthChecker HealthChecker,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Server {
	if opts.LivenessPath == "" {
		opts.LivenessPath = "/health/live"
	}
	if opts.ReadinessPath == "" {
		opts.ReadinessPath = "/health/ready"
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	s := &Server{logger: logger}

	if opts.HealthPort > 0 {
		s.healthServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", opts.HealthPort),
			Handler:      HealthHandler(opts, healthChecker, logger),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
	}

	if opts.MetricsPort > 0 {
		s.metricsServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", opts.MetricsPort),
			Handler:      MetricsHandler(opts, registry),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
	}

	return s
}

// HealthHandler returns the mux serving liveness and readiness probes.
func HealthHandler(opts Options, checker HealthChecker, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(opts.LivenessPath, LivenessHandler(checker, logger))
	mux.HandleFunc(opts.ReadinessPath, ReadinessHandler(checker, logger))
	return mux
}

// MetricsHandler returns the mux serving the registry in Prometheus text format.
func MetricsHandler(opts Options, registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return mux
}

// Start starts the configured HTTP servers.
func (s *Server) Start() error {
	for _, srv := range s.servers() {
		go func(srv *http.Server) {
			s.logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("HTTP server failed", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}(srv)
	}
	return nil
}

// Shutdown gracefully shuts down the servers.
func (s *Server) Shutdown(ctx context.Context) error {
	servers := s.servers()
	if len(servers) == 0 {
		return nil
	}
	s.logger.Info("shutting down HTTP servers")

	errChan := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			errChan <- srv.Shutdown(ctx)
		}(srv)
	}

	var lastErr error
	for range servers {
		if err := <-errChan; err != nil {
			s.logger.Error("error shutting down server", zap.Error(err))
			lastErr = err
		}
	}

	return lastErr
}

func (s *Server) servers() []*http.Server {
	var servers []*http.Server
	if s.healthServer != nil {
		servers = append(servers, s.healthServer)
	}
	if s.metricsServer != nil {
		servers = append(servers, s.metricsServer)
	}
	return servers
}
