package pipeline

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jittakal/chunker/internal/config/dto"
)

// computeBackoff returns the delay before retry number attempt (1-based):
// InitialBackoff * Multiplier^(attempt-1), capped at MaxBackoff. With jitter
// the delay is drawn uniformly from [0, d).
func computeBackoff(cfg dto.RetryConfig, attempt int) time.Duration {
	base := time.Duration(cfg.InitialBackoffMS) * time.Millisecond
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	factor := cfg.BackoffMultiplier
	if factor <= 0 {
		factor = 2.0
	}

	f := float64(base) * math.Pow(factor, float64(attempt-1))
	limit := time.Duration(cfg.MaxBackoffMS) * time.Millisecond
	if limit <= 0 {
		limit = 30 * time.Second
	}
	d := limit
	if f < float64(limit) {
		d = time.Duration(f)
	}
	if cfg.Jitter && d > 0 {
		return time.Duration(rand.Int64N(int64(d)))
	}
	return d
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
