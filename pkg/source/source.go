// Package source defines the interface for producers of lines fed to the engine.
package source

import "context"

// Source produces lines until its input ends or ctx is cancelled.
type Source interface {
	// Run calls emit once per line, in order, and returns when the input is exhausted
	// (nil error) or ctx is done (ctx.Err()).
	Run(ctx context.Context, emit func(line string)) error

	// Name identifies the source in logs and metrics.
	Name() string
}
