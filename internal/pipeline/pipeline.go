// Package pipeline wires a line source through the chunking engine into a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jittakal/chunker/internal/config/dto"
	apperrors "github.com/jittakal/chunker/internal/errors"
	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/chunker"
	"github.com/jittakal/chunker/pkg/sink"
	"github.com/jittakal/chunker/pkg/source"
	"go.uber.org/zap"
)

// MetricsCollector defines metrics operations for the pipeline.
type MetricsCollector interface {
	ObserveFlush(reason string, chunks []string)
	SetPendingBytes(n int)
	IncLinesRead(source string)
	IncSinkRetries(backend string)
}

// Config configures a Pipeline.
type Config struct {
	Chunker dto.ChunkerConfig
	Retry   dto.RetryConfig
	// Backend labels retry metrics and logs.
	Backend string
	// GracePeriod bounds the final flush once the source stops.
	GracePeriod time.Duration
}

// Pipeline reads lines from a source, appends them to a chunking engine and
// writes every automatic or final flush to a sink as one batch.
type Pipeline struct {
	cfg     Config
	engine  *chunker.Engine
	source  source.Source
	writer  sink.Writer
	logger  *zap.Logger
	metrics MetricsCollector

	// writeCtx outlives the Run context so that flushes triggered during
	// shutdown can still be written; Shutdown cancels it.
	writeCtx     context.Context
	cancelWrites context.CancelFunc

	sequence      atomic.Uint64
	running       atomic.Bool
	stopped       atomic.Bool
	batchesOK     atomic.Uint64
	batchesFailed atomic.Uint64
	shutdownOnce  sync.Once
	shutdownErr   error
}

// New creates a pipeline and its engine. Rollover triggers are registered
// according to cfg.Chunker.Rollover.
func New(cfg Config, src source.Source, writer sink.Writer, logger *zap.Logger, metrics MetricsCollector) *Pipeline {
	writeCtx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		cfg:          cfg,
		source:       src,
		writer:       writer,
		logger:       logger,
		metrics:      metrics,
		writeCtx:     writeCtx,
		cancelWrites: cancel,
	}

	var triggers []chunker.Trigger
	if r := cfg.Chunker.Rollover.Size; r.Enabled {
		triggers = append(triggers, chunker.SizeTrigger(r.Threshold, p.onFlush(chunk.ReasonSize)))
	}
	if r := cfg.Chunker.Rollover.Time; r.Enabled {
		triggers = append(triggers, chunker.TimeTrigger(r.Interval(), p.onFlush(chunk.ReasonTime)))
	}

	p.engine = chunker.New(chunker.Config{
		ChunkSize:      cfg.Chunker.Size,
		LineTerminator: chunker.Terminator(cfg.Chunker.LineChar),
		Rollover:       triggers,
	})
	return p
}

// Engine returns the pipeline's chunking engine.
func (p *Pipeline) Engine() *chunker.Engine {
	return p.engine
}

// Run feeds the source into the engine until the source is exhausted or ctx
// is cancelled, then shuts the pipeline down. Cancellation is not an error.
func (p *Pipeline) Run(ctx context.Context) error {
	p.running.Store(true)
	defer p.running.Store(false)

	name := p.source.Name()
	p.logger.Info("pipeline started",
		zap.String("source", name),
		zap.String("backend", p.cfg.Backend),
		zap.Int("chunk_size", p.engine.ChunkSize()),
	)

	err := p.source.Run(ctx, func(line string) {
		p.engine.AppendLine(line)
		if p.metrics != nil {
			p.metrics.IncLinesRead(name)
			p.metrics.SetPendingBytes(p.engine.Len())
		}
	})
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		p.logger.Error("source failed", zap.String("source", name), zap.Error(err))
	} else {
		p.logger.Info("source finished", zap.String("source", name))
	}

	shutdownCtx := context.Background()
	if p.cfg.GracePeriod > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, p.cfg.GracePeriod)
		defer cancel()
	}
	return errors.Join(err, p.Shutdown(shutdownCtx))
}

// Shutdown stops the time trigger, writes whatever is still pending as a
// shutdown batch and closes the sink. It is safe to call more than once.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() {
		p.stopped.Store(true)
		defer p.cancelWrites()

		var errs []error
		if err := p.engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close engine: %w", err))
		}

		if chunks := p.engine.Flush(); len(chunks) > 0 {
			if err := p.deliver(ctx, chunk.ReasonShutdown, chunks); err != nil {
				errs = append(errs, err)
			}
		}

		if err := p.writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close sink: %w", err))
		}

		p.logger.Info("pipeline stopped",
			zap.Uint64("batches_written", p.batchesOK.Load()),
			zap.Uint64("batches_failed", p.batchesFailed.Load()),
		)
		p.shutdownErr = errors.Join(errs...)
	})
	return p.shutdownErr
}

// onFlush adapts a rollover delivery to a batch write.
func (p *Pipeline) onFlush(reason chunk.Reason) chunker.FlushFunc {
	return func(chunks []string) {
		if err := p.deliver(p.writeCtx, reason, chunks); err != nil {
			p.logger.Error("dropping batch", zap.String("reason", string(reason)), zap.Error(err))
		}
	}
}

// deliver wraps chunks into a batch and writes it. Empty batches are counted
// but never written.
func (p *Pipeline) deliver(ctx context.Context, reason chunk.Reason, chunks []string) error {
	if p.metrics != nil {
		p.metrics.ObserveFlush(string(reason), chunks)
		p.metrics.SetPendingBytes(p.engine.Len())
	}
	if len(chunks) == 0 {
		return nil
	}

	batch := chunk.NewBatch(reason, p.sequence.Add(1), chunks, time.Now().UTC())
	if err := p.write(ctx, batch); err != nil {
		p.batchesFailed.Add(1)
		return fmt.Errorf("batch %s: %w", batch.Key(), err)
	}
	p.batchesOK.Add(1)
	return nil
}

// write writes batch, retrying retryable failures with exponential backoff.
func (p *Pipeline) write(ctx context.Context, batch chunk.Batch) error {
	attempts := 1
	if p.cfg.Retry.Enabled && p.cfg.Retry.MaxAttempts > 1 {
		attempts = p.cfg.Retry.MaxAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if _, err = p.writer.Write(ctx, batch); err == nil {
			return nil
		}
		if !apperrors.IsRetryable(err) || attempt == attempts {
			break
		}

		delay := computeBackoff(p.cfg.Retry, attempt)
		p.logger.Warn("sink write failed, retrying",
			zap.String("batch_id", batch.ID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		if p.metrics != nil {
			p.metrics.IncSinkRetries(p.cfg.Backend)
		}
		if serr := sleep(ctx, delay); serr != nil {
			return errors.Join(err, serr)
		}
	}
	return err
}

// Liveness reports whether the process should be kept alive.
func (p *Pipeline) Liveness() bool {
	return true
}

// Readiness reports whether the pipeline is consuming its source.
func (p *Pipeline) Readiness(ctx context.Context) bool {
	return p.running.Load() && !p.stopped.Load()
}

// GetStatus returns a snapshot of the pipeline state.
func (p *Pipeline) GetStatus() map[string]string {
	status := "stopped"
	if p.running.Load() && !p.stopped.Load() {
		status = "running"
	}
	stats := p.engine.Stats()
	return map[string]string{
		"status":          status,
		"source":          p.source.Name(),
		"backend":         p.cfg.Backend,
		"pending_bytes":   strconv.Itoa(stats.PendingBytes),
		"batches_written": strconv.FormatUint(p.batchesOK.Load(), 10),
		"batches_failed":  strconv.FormatUint(p.batchesFailed.Load(), 10),
	}
}
