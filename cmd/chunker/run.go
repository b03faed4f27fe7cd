package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/jittakal/chunker/internal/config"
	"github.com/jittakal/chunker/internal/observability"
	"github.com/jittakal/chunker/internal/pipeline"
	"github.com/jittakal/chunker/internal/server"
	"github.com/jittakal/chunker/internal/sink"
	"github.com/jittakal/chunker/internal/source"
)

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "Run the chunking pipeline from a configuration file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to configuration file",
			EnvVars: []string{"CONFIG_PATH"},
			Value:   "config/application.yaml",
		},
	},
	Action: runCmd,
}

func runCmd(c *cli.Context) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: cfg.Observability.Logging.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting chunker",
		zap.String("version", cfg.Application.Version),
		zap.String("environment", cfg.Application.Environment),
		zap.String("source", cfg.Source.Type),
		zap.String("backend", cfg.Sink.Backend),
	)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer, err := sink.New(ctx, cfg.Sink, cfg.Kafka, logger, metrics)
	if err != nil {
		return fmt.Errorf("failed to create sink: %w", err)
	}

	src, err := source.New(cfg.Source)
	if err != nil {
		writer.Close()
		return fmt.Errorf("failed to create source: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		Chunker:     cfg.Chunker,
		Retry:       cfg.Retry,
		Backend:     cfg.Sink.Backend,
		GracePeriod: cfg.Shutdown.GracePeriod(),
	}, src, writer, logger, metrics)

	opts := server.Options{}
	if cfg.Observability.Health.Enabled {
		opts.HealthPort = cfg.Observability.Health.Port
		opts.LivenessPath = cfg.Observability.Health.LivenessPath
		opts.ReadinessPath = cfg.Observability.Health.ReadinessPath
	}
	if cfg.Observability.Metrics.Enabled {
		opts.MetricsPort = cfg.Observability.Metrics.Port
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}
	httpServer := server.NewServer(opts, p, registry, logger)
	if err := httpServer.Start(); err != nil {
		p.Shutdown(context.Background())
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to stop HTTP server", zap.Error(err))
		}
	}()

	logger.Info("application started successfully")

	if err := p.Run(ctx); err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	if ctx.Err() != nil {
		logger.Info("received termination signal")
	}
	logger.Info("application stopped successfully")
	return nil
}
