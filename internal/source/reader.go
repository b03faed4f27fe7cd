// Package source implements line sources feeding the chunking pipeline.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	apperrors "github.com/jittakal/chunker/internal/errors"
	"github.com/jittakal/chunker/pkg/source"
)

var _ source.Source = (*Reader)(nil)

// DefaultMaxLineBytes bounds a single scanned line.
const DefaultMaxLineBytes = 1024 * 1024

// Reader emits the lines of an io.Reader in order, without their terminators.
// A trailing line without a terminator is still emitted.
//
// Scanning runs on its own goroutine so that Run returns promptly on
// cancellation even while a Read is blocked on an idle input. That goroutine
// exits once the blocked Read returns.
type Reader struct {
	name         string
	r            io.Reader
	closer       io.Closer
	maxLineBytes int
	started      atomic.Bool
}

// NewReader creates a source reading from r.
func NewReader(name string, r io.Reader, maxLineBytes int) *Reader {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &Reader{name: name, r: r, maxLineBytes: maxLineBytes}
}

// NewStdin creates a source reading standard input.
func NewStdin(maxLineBytes int) *Reader {
	return NewReader("stdin", os.Stdin, maxLineBytes)
}

// OpenFile creates a source reading the file at path. The file is closed when Run returns.
func OpenFile(path string, maxLineBytes int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	r := NewReader("file", f, maxLineBytes)
	r.closer = f
	return r, nil
}

// Name returns the source name.
func (r *Reader) Name() string { return r.name }

// Run scans lines and passes each to emit on the calling goroutine.
// A Reader runs once; later calls return ErrSourceClosed.
func (r *Reader) Run(ctx context.Context, emit func(line string)) error {
	if !r.started.CompareAndSwap(false, true) {
		return apperrors.ErrSourceClosed
	}
	lines := make(chan string)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		if r.closer != nil {
			defer r.closer.Close()
		}
		errc <- r.scan(lines, done)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			emit(line)
		}
	}
}

// scan sends every line to lines and closes it at EOF or on error.
func (r *Reader) scan(lines chan<- string, done <-chan struct{}) error {
	defer close(lines)

	scanner := bufio.NewScanner(r.r)
	initial := 64 * 1024
	if initial > r.maxLineBytes {
		initial = r.maxLineBytes
	}
	scanner.Buffer(make([]byte, 0, initial), r.maxLineBytes)

	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-done:
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", r.name, err)
	}
	return nil
}
