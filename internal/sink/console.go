package sink

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"sync"

	apperrors "github.com/jittakal/chunker/internal/errors"
	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/sink"
)

var _ sink.Writer = (*ConsoleWriter)(nil)

// ConsoleWriter prints every chunk of a batch on its own line.
// With quoting enabled chunks are printed as Go string literals so that
// embedded line terminators stay visible.
type ConsoleWriter struct {
	mu     sync.Mutex
	out    io.Writer
	quote  bool
	closed bool
}

// NewConsoleWriter creates a writer printing to out.
func NewConsoleWriter(out io.Writer, quote bool) *ConsoleWriter {
	return &ConsoleWriter{out: out, quote: quote}
}

// Write prints the batch and returns the number of bytes written to out.
func (w *ConsoleWriter) Write(ctx context.Context, batch chunk.Batch) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, apperrors.ErrWriterClosed
	}
	if batch.IsEmpty() {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w.out)
	var n int64
	for _, c := range batch.Chunks {
		if w.quote {
			c = strconv.Quote(c)
		}
		written, err := bw.WriteString(c + "\n")
		n += int64(written)
		if err != nil {
			return n, &apperrors.SinkError{Backend: "console", Operation: "write", Err: err}
		}
	}
	if err := bw.Flush(); err != nil {
		return n, &apperrors.SinkError{Backend: "console", Operation: "write", Err: err}
	}
	return n, nil
}

// Close marks the writer closed. The underlying io.Writer is left open.
func (w *ConsoleWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}
