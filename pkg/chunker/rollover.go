package chunker

import (
	"context"
	"time"
)

// Reason records what caused a flush.
type Reason string

const (
	ReasonManual Reason = "manual"
	ReasonSize   Reason = "size"
	ReasonTime   Reason = "time"
	ReasonWatch  Reason = "watch"
)

// TriggerKind selects the rollover slot a Trigger registers into.
type TriggerKind string

const (
	TriggerSize TriggerKind = "size"
	TriggerTime TriggerKind = "time"
)

// Trigger describes an automatic flush.
//
// A size trigger flushes once the pending length reaches Threshold bytes.
// A time trigger flushes every Interval, including when the buffer is empty.
type Trigger struct {
	Kind      TriggerKind
	Threshold int
	Interval  time.Duration
	OnFlush   FlushFunc
}

// SizeTrigger returns a trigger that flushes once threshold bytes are pending.
func SizeTrigger(threshold int, fn FlushFunc) Trigger {
	return Trigger{Kind: TriggerSize, Threshold: threshold, OnFlush: fn}
}

// TimeTrigger returns a trigger that flushes every interval.
func TimeTrigger(interval time.Duration, fn FlushFunc) Trigger {
	return Trigger{Kind: TriggerTime, Interval: interval, OnFlush: fn}
}

func (t Trigger) valid() bool {
	if t.OnFlush == nil {
		return false
	}
	switch t.Kind {
	case TriggerSize:
		return t.Threshold > 0
	case TriggerTime:
		return t.Interval > 0
	default:
		return false
	}
}

type sizeTrigger struct {
	threshold int
	onFlush   FlushFunc
}

type timeTrigger struct {
	interval time.Duration
	onFlush  FlushFunc
	cancel   context.CancelFunc
	done     chan struct{}
}

// wait blocks until the ticker goroutine has exited. The caller cancels first,
// while holding the engine lock, so a tick racing with cancellation never drains.
func (t *timeTrigger) wait() {
	<-t.done
}

// ConfigureRollover registers automatic flush triggers.
//
// Each kind has a single slot: registering a kind again replaces the previous trigger
// of that kind, stopping its ticker when it is a time trigger. Triggers without a
// callback, with a non-positive threshold or interval, or with an unknown kind are
// ignored.
//
// Callbacks run one at a time, in the order the buffer was drained, on the goroutine
// that caused the flush or on the goroutine already delivering an earlier one. They
// may call Append, AppendLine, Flush, Peek and Watch; a flush those calls cause is
// delivered after the running callback returns. Callbacks must not call Close.
func (e *Engine) ConfigureRollover(triggers ...Trigger) {
	var replaced []*timeTrigger

	e.mu.Lock()
	for _, t := range triggers {
		if !t.valid() {
			continue
		}
		switch t.Kind {
		case TriggerSize:
			e.size = &sizeTrigger{threshold: t.Threshold, onFlush: t.OnFlush}
		case TriggerTime:
			if e.timer != nil {
				e.timer.cancel()
				replaced = append(replaced, e.timer)
			}
			e.timer = e.startTimer(t.Interval, t.OnFlush)
		}
	}
	e.mu.Unlock()

	for _, t := range replaced {
		t.wait()
	}
}

func (e *Engine) startTimer(interval time.Duration, fn FlushFunc) *timeTrigger {
	ctx, cancel := context.WithCancel(context.Background())
	t := &timeTrigger{
		interval: interval,
		onFlush:  fn,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go func() {
		defer close(t.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.mu.Lock()
				if ctx.Err() != nil {
					e.mu.Unlock()
					return
				}
				run := e.enqueueLocked(fn, e.drainLocked(ReasonTime))
				e.mu.Unlock()

				if run {
					e.deliverQueued()
				}
			}
		}
	}()

	return t
}

// Close stops the time trigger, if any, and waits for its goroutine to exit, including
// any delivery that goroutine is running. No time-triggered drain happens after Close
// returns. Close is idempotent,
// and the engine stays usable for Append, Flush and size-triggered flushes.
func (e *Engine) Close() error {
	e.mu.Lock()
	t := e.timer
	e.timer = nil
	if t != nil {
		t.cancel()
	}
	e.mu.Unlock()

	if t != nil {
		t.wait()
	}
	return nil
}
