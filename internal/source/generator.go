package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jaswdr/faker"
	"github.com/jittakal/chunker/pkg/source"
)

var _ source.Source = (*Generator)(nil)

// Generator kinds.
const (
	KindSentence  = "sentence"
	KindParagraph = "paragraph"
	KindName      = "name"
	KindEmail     = "email"
	KindCity      = "city"
)

// GeneratorConfig configures the synthetic line generator.
type GeneratorConfig struct {
	// Interval between lines; zero emits as fast as possible.
	Interval time.Duration
	// Count stops the generator after that many lines; zero runs until cancelled.
	Count int
	Kind  string
}

// Generator emits fake text lines at a fixed interval.
type Generator struct {
	config GeneratorConfig
	faker  faker.Faker
	line   func() string
}

// NewGenerator creates a new line generator.
func NewGenerator(config GeneratorConfig) (*Generator, error) {
	g := &Generator{config: config, faker: faker.New()}

	switch config.Kind {
	case "", KindSentence:
		g.line = func() string { return g.faker.Lorem().Sentence(g.faker.IntBetween(3, 12)) }
	case KindParagraph:
		g.line = func() string { return g.faker.Lorem().Paragraph(1) }
	case KindName:
		g.line = func() string { return g.faker.Person().Name() }
	case KindEmail:
		g.line = func() string { return g.faker.Internet().Email() }
	case KindCity:
		g.line = func() string { return g.faker.Address().City() }
	default:
		return nil, fmt.Errorf("unsupported generator kind: %s", config.Kind)
	}
	return g, nil
}

// Name returns "generator".
func (g *Generator) Name() string { return "generator" }

// Run emits lines until Count is reached or ctx is cancelled. Reaching Count returns nil.
func (g *Generator) Run(ctx context.Context, emit func(line string)) error {
	var tick <-chan time.Time
	if g.config.Interval > 0 {
		ticker := time.NewTicker(g.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for n := 0; g.config.Count <= 0 || n < g.config.Count; n++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		emit(g.line())
	}
	return nil
}
