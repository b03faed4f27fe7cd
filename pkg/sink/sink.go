// Package sink defines interfaces for delivering flushed batches.
//
// This package provides abstractions for writing batches to various
// backends (console, local filesystem, S3, GCS, Azure Blob, SQLite, Kafka).
package sink

import (
	"context"
	"time"

	"github.com/jittakal/chunker/pkg/chunk"
)

// Writer writes batches to a backend.
type Writer interface {
	// Write delivers a batch and returns the number of bytes written.
	Write(ctx context.Context, batch chunk.Batch) (int64, error)

	// Close closes the writer and releases resources.
	Close() error
}

// Router determines object paths for batches.
type Router interface {
	// Route returns the storage path for a batch flushed at the given time.
	Route(batch chunk.Batch, flushedAt time.Time) string
}
