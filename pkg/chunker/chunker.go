// Package chunker implements the buffering engine.
package chunker

import (
	"strings"
	"sync"
)

const (
	// DefaultChunkSize is the chunk length used when Config.ChunkSize is not positive.
	DefaultChunkSize = 10

	// DefaultLineTerminator is appended by AppendLine when Config.LineTerminator is nil.
	DefaultLineTerminator = "\n"
)

// FlushFunc receives the chunks produced by an automatic flush.
// The slice may be empty when a time trigger fires on an empty buffer.
type FlushFunc func(chunks []string)

// Config configures an Engine.
type Config struct {
	// ChunkSize is the maximum length in bytes of each chunk returned by a flush.
	ChunkSize int

	// LineTerminator is appended to every AppendLine call. Nil selects
	// DefaultLineTerminator; a pointer to "" makes AppendLine behave like Append.
	LineTerminator *string

	// Rollover registers triggers at construction, as ConfigureRollover does.
	Rollover []Trigger
}

// Terminator returns a pointer to s for use as Config.LineTerminator.
func Terminator(s string) *string {
	return &s
}

// Stats is a point-in-time view of an engine.
type Stats struct {
	PendingFragments int
	PendingBytes     int
	Flushes          map[Reason]uint64
}

// Engine accumulates appended fragments and drains them as chunks of ChunkSize bytes.
//
// Engines that have a time trigger own a background ticker. Callers must call Close
// once they are done with the engine, otherwise the ticker keeps firing forever.
type Engine struct {
	mu             sync.Mutex
	fragments      []string
	length         int
	chunkSize      int
	lineTerminator string
	size           *sizeTrigger
	timer          *timeTrigger
	flushes        map[Reason]uint64

	// queue holds drained automatic flushes awaiting their callback.
	// delivering is set while some goroutine is running deliverQueued.
	queue      []delivery
	delivering bool
}

type delivery struct {
	fn     FlushFunc
	chunks []string
}

// New creates an engine from cfg, applying defaults for unset fields.
func New(cfg Config) *Engine {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	lineTerminator := DefaultLineTerminator
	if cfg.LineTerminator != nil {
		lineTerminator = *cfg.LineTerminator
	}

	e := &Engine{
		chunkSize:      chunkSize,
		lineTerminator: lineTerminator,
		flushes:        make(map[Reason]uint64),
	}

	if len(cfg.Rollover) > 0 {
		e.ConfigureRollover(cfg.Rollover...)
	}
	return e
}

// Append adds fragment verbatim to the pending content.
// When a size trigger is configured and the pending length reaches its threshold,
// the fragment is kept and the buffer is flushed to the trigger's callback. The
// callback has run by the time Append returns, unless another delivery was already in
// progress; that delivery then runs it.
func (e *Engine) Append(fragment string) {
	e.mu.Lock()
	e.fragments = append(e.fragments, fragment)
	e.length += len(fragment)

	if e.size == nil || e.length < e.size.threshold {
		e.mu.Unlock()
		return
	}

	run := e.enqueueLocked(e.size.onFlush, e.drainLocked(ReasonSize))
	e.mu.Unlock()

	if run {
		e.deliverQueued()
	}
}

// AppendLine appends text followed by the configured line terminator.
func (e *Engine) AppendLine(text string) {
	e.Append(text + e.lineTerminator)
}

// Flush drains the buffer and returns its content split into chunks.
// An empty buffer yields an empty slice.
func (e *Engine) Flush() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.drainManualLocked()
}

// Peek returns a copy of the pending fragments without draining them.
func (e *Engine) Peek() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	fragments := make([]string, len(e.fragments))
	copy(fragments, e.fragments)
	return fragments
}

// Watch flushes the buffer into fn when predicate reports true.
// It evaluates predicate exactly once; it is not a continuous observer.
func (e *Engine) Watch(predicate func() bool, fn FlushFunc) {
	if predicate == nil || fn == nil || !predicate() {
		return
	}

	e.mu.Lock()
	run := e.enqueueLocked(fn, e.drainLocked(ReasonWatch))
	e.mu.Unlock()

	if run {
		e.deliverQueued()
	}
}

// Len returns the number of pending bytes.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.length
}

// ChunkSize returns the configured chunk size.
func (e *Engine) ChunkSize() int {
	return e.chunkSize
}

// LineTerminator returns the terminator used by AppendLine.
func (e *Engine) LineTerminator() string {
	return e.lineTerminator
}

// Stats returns current buffer statistics.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	flushes := make(map[Reason]uint64, len(e.flushes))
	for reason, n := range e.flushes {
		flushes[reason] = n
	}
	return Stats{
		PendingFragments: len(e.fragments),
		PendingBytes:     e.length,
		Flushes:          flushes,
	}
}

func (e *Engine) drainManualLocked() []string {
	if len(e.fragments) == 0 {
		return []string{}
	}
	e.flushes[ReasonManual]++
	return e.takeLocked()
}

func (e *Engine) drainLocked(reason Reason) []string {
	e.flushes[reason]++
	return e.takeLocked()
}

func (e *Engine) takeLocked() []string {
	content := strings.Join(e.fragments, "")
	e.fragments = nil
	e.length = 0
	return Split(content, e.chunkSize)
}

// enqueueLocked queues a drained flush for delivery. It reports whether the caller
// must run deliverQueued; when another call is already delivering, including one
// further up the caller's own stack, that call picks the flush up instead.
func (e *Engine) enqueueLocked(fn FlushFunc, chunks []string) bool {
	e.queue = append(e.queue, delivery{fn: fn, chunks: chunks})
	if e.delivering {
		return false
	}
	e.delivering = true
	return true
}

// deliverQueued invokes queued callbacks in drain order, without the engine lock,
// until the queue is empty.
func (e *Engine) deliverQueued() {
	finished := false
	defer func() {
		if !finished {
			// A callback panicked; let the next drain take over delivery.
			e.mu.Lock()
			e.delivering = false
			e.mu.Unlock()
		}
	}()

	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.queue = nil
			e.delivering = false
			e.mu.Unlock()
			finished = true
			return
		}
		d := e.queue[0]
		e.queue[0] = delivery{}
		e.queue = e.queue[1:]
		e.mu.Unlock()

		d.fn(d.chunks)
	}
}
