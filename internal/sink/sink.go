package sink

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jittakal/chunker/internal/errors"
	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/encoder"
	"github.com/jittakal/chunker/pkg/sink"
	"go.uber.org/zap"
)

// Ensure implementation satisfies interface at compile time.
var _ sink.Writer = (*ObjectWriter)(nil)

// MetricsCollector defines metrics operations for sinks.
type MetricsCollector interface {
	IncBatchesWritten(backend, format, status string)
	ObserveSinkWrite(backend, format string, seconds float64, size int64)
	IncSinkErrors(backend, errorType string)
}

// ObjectStore puts encoded objects into a backend.
type ObjectStore interface {
	// Backend names the store in logs, metrics and errors.
	Backend() string

	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Close releases the store's resources.
	Close() error
}

// ObjectWriter implements sink.Writer for object-oriented backends (filesystem, S3, GCS,
// Azure Blob). Each batch is encoded into one object whose key comes from the router.
type ObjectWriter struct {
	store   ObjectStore
	encoder encoder.Encoder
	router  sink.Router
	logger  *zap.Logger
	metrics MetricsCollector

	mu     sync.Mutex
	closed bool
}

// NewObjectWriter creates a writer storing batches encoded with enc into store.
func NewObjectWriter(
	store ObjectStore,
	enc encoder.Encoder,
	router sink.Router,
	logger *zap.Logger,
	metrics MetricsCollector,
) *ObjectWriter {
	return &ObjectWriter{
		store:   store,
		encoder: enc,
		router:  router,
		logger:  logger,
		metrics: metrics,
	}
}

// Write encodes the batch and stores it. Empty batches are skipped.
func (w *ObjectWriter) Write(ctx context.Context, batch chunk.Batch) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, apperrors.ErrWriterClosed
	}
	if batch.IsEmpty() {
		return 0, nil
	}

	backend := w.store.Backend()
	format := string(w.encoder.Format())
	startTime := time.Now()

	data, err := w.encoder.Encode(batch)
	if err != nil {
		w.recordFailure(backend, format, "encode")
		return 0, fmt.Errorf("failed to encode batch %s: %w", batch.ID, err)
	}

	key := ObjectKey(w.router, batch, w.encoder.FileExtension())
	if err := w.store.Put(ctx, key, data, contentType(w.encoder.Format())); err != nil {
		w.recordFailure(backend, format, "upload")
		return 0, &apperrors.SinkError{Backend: backend, Operation: "upload", Path: key, Err: err}
	}

	duration := time.Since(startTime)
	size := int64(len(data))

	w.logger.Info("wrote batch",
		zap.String("backend", backend),
		zap.String("key", key),
		zap.String("batch_id", batch.ID),
		zap.String("reason", string(batch.Reason)),
		zap.Int("chunk_count", len(batch.Chunks)),
		zap.Int64("object_size", size),
		zap.Int64("total_duration_ms", duration.Milliseconds()),
	)

	if w.metrics != nil {
		w.metrics.IncBatchesWritten(backend, format, "success")
		w.metrics.ObserveSinkWrite(backend, format, duration.Seconds(), size)
	}

	return size, nil
}

func (w *ObjectWriter) recordFailure(backend, format, operation string) {
	if w.metrics != nil {
		w.metrics.IncSinkErrors(backend, operation)
		w.metrics.IncBatchesWritten(backend, format, "failure")
	}
}

// Close closes the underlying store. Further writes fail with ErrWriterClosed.
func (w *ObjectWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.logger.Info("closing sink writer", zap.String("backend", w.store.Backend()))
	return w.store.Close()
}

func contentType(format chunk.FileFormat) string {
	switch format {
	case chunk.FormatRaw:
		return "text/plain; charset=utf-8"
	case chunk.FormatJSONL:
		return "application/x-ndjson"
	case chunk.FormatAvro:
		return "application/avro"
	default:
		return "application/octet-stream"
	}
}
