package aggregate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"constraint-meta/internal/analyze"
	"constraint-meta/internal/config"
	"constraint-meta/internal/descriptor"
	"constraint-meta/internal/logger"
	"constraint-meta/internal/tags"
)

// FromConfig loads the configured packages and descriptors and returns an
// aggregator over the struct tag source, the descriptor source and extra.
func FromConfig(ctx context.Context, cfg *config.Config, log *zap.Logger, extra ...Provider) (*Aggregator, error) {
	if log == nil {
		log = logger.Nop()
	}

	precedence, err := cfg.ResolvePrecedence()
	if err != nil {
		return nil, err
	}

	graph := analyze.NewTypeGraph()

	if len(cfg.Packages) > 0 {
		graph, err = analyze.NewAnalyzer().LoadPackages(ctx, cfg.Packages...)
		if err != nil {
			return nil, fmt.Errorf("failed to load packages: %w", err)
		}

		log.Debug("loaded packages", zap.Strings("patterns", cfg.Packages), zap.Int("types", len(graph.Types)))
	}

	var providers []Provider

	if !cfg.IgnoreDeclarations {
		providers = append(providers, tags.NewSource(graph, cfg.Tags, log))
	}

	if len(cfg.Descriptors) > 0 {
		docs, err := descriptor.LoadFiles(cfg.Descriptors...)
		if err != nil {
			return nil, err
		}

		providers = append(providers, descriptor.NewSource(graph, docs, log))
	}

	providers = append(providers, extra...)

	return New(precedence, log, providers...), nil
}
