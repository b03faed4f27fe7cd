// Package errors defines application-specific error types and sentinel errors.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrWriterClosed       = errors.New("sink writer is closed")
	ErrEmptyBatch         = errors.New("batch has no chunks")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrUnsupportedBackend = errors.New("unsupported sink backend")
	ErrSourceClosed       = errors.New("source is closed")
	ErrConnectionLost     = errors.New("connection lost")
)

// SinkError represents a sink operation failure.
type SinkError struct {
	Backend   string
	Operation string
	Path      string
	Err       error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink error: backend=%s operation=%s path=%s: %v",
		e.Backend, e.Operation, e.Path, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// IsRetryable determines if a SinkError is retryable based on the operation type.
func (e *SinkError) IsRetryable() bool {
	// Write, upload and publish operations are generally retryable
	switch e.Operation {
	case "write", "upload", "create", "publish", "insert":
		return true
	}
	return false
}

// EncodeError represents a failure to encode a batch.
type EncodeError struct {
	Format  string
	BatchID string
	Err     error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode error: format=%s batch_id=%s: %v",
		e.Format, e.BatchID, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Retryable defines an interface for errors that can indicate if they are retryable.
type Retryable interface {
	error
	IsRetryable() bool
}

// IsRetryable checks if an error is retryable.
// It first checks if the error implements the Retryable interface,
// then falls back to sentinel errors.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var retryable Retryable
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}

	return errors.Is(err, ErrConnectionLost)
}
