package source

import (
	"fmt"

	"github.com/jittakal/chunker/internal/config/dto"
	"github.com/jittakal/chunker/pkg/source"
)

// New creates the configured source.
func New(cfg dto.SourceConfig) (source.Source, error) {
	switch cfg.Type {
	case "", "stdin":
		return NewStdin(cfg.MaxLineBytes), nil
	case "file":
		r, err := OpenFile(cfg.Path, cfg.MaxLineBytes)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "generator":
		g, err := NewGenerator(GeneratorConfig{
			Interval: cfg.Generator.Interval(),
			Count:    cfg.Generator.Count,
			Kind:     cfg.Generator.Kind,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.Type)
	}
}
