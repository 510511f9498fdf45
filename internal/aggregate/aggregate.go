package aggregate

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"constraint-meta/internal/logger"
	"constraint-meta/metadata"
)

// Provider supplies the records of one configuration source.
type Provider interface {
	Name() string
	Provide(ctx context.Context) ([]metadata.ConstrainedElement, error)
}

// DeclarationFilter is implemented by providers that can ask for the
// declarations of some types to be dropped.
type DeclarationFilter interface {
	IgnoredTypes() []string
}

// Aggregator merges the records of several providers.
type Aggregator struct {
	merger    *metadata.Merger
	providers []Provider
	log       *zap.Logger
}

// New creates an aggregator ordering sources by p. A nil logger disables
// logging.
func New(p metadata.Precedence, log *zap.Logger, providers ...Provider) *Aggregator {
	if log == nil {
		log = logger.Nop()
	}

	return &Aggregator{
		merger:    metadata.NewMerger(p, metadata.WithLogger(log.Named("merge"))),
		providers: providers,
		log:       log,
	}
}

// Providers returns the configured providers in order.
func (a *Aggregator) Providers() []Provider {
	return slices.Clone(a.providers)
}

// Run collects records from all providers concurrently and merges them.
// The first provider error cancels the others and is returned.
func (a *Aggregator) Run(ctx context.Context) ([]TypeMetadata, error) {
	elements, err := a.collect(ctx)
	if err != nil {
		return nil, err
	}

	elements = a.dropIgnored(elements)

	merged, err := a.merger.Merge(elements)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	types := groupByType(merged)

	a.log.Info("aggregated constraint metadata",
		zap.Int("records", len(elements)),
		zap.Int("elements", len(merged)),
		zap.Int("types", len(types)))

	return types, nil
}

// collect runs the providers and concatenates their records in provider
// order, so the result does not depend on scheduling.
func (a *Aggregator) collect(ctx context.Context) ([]metadata.ConstrainedElement, error) {
	results := make([][]metadata.ConstrainedElement, len(a.providers))

	g, gctx := errgroup.WithContext(ctx)

	for i, p := range a.providers {
		g.Go(func() error {
			elements, err := p.Provide(gctx)
			if err != nil {
				return fmt.Errorf("source %s: %w", p.Name(), err)
			}

			a.log.Debug("source provided records", zap.String("source", p.Name()), zap.Int("records", len(elements)))
			results[i] = elements

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.Concat(results...), nil
}

// dropIgnored removes declaration records of types some provider asked to
// ignore.
func (a *Aggregator) dropIgnored(elements []metadata.ConstrainedElement) []metadata.ConstrainedElement {
	ignored := map[string]struct{}{}

	for _, p := range a.providers {
		if f, ok := p.(DeclarationFilter); ok {
			for _, t := range f.IgnoredTypes() {
				ignored[t] = struct{}{}
			}
		}
	}

	if len(ignored) == 0 {
		return elements
	}

	kept := slices.DeleteFunc(slices.Clone(elements), func(e metadata.ConstrainedElement) bool {
		if e == nil || e.Source() != metadata.SourceDeclaration {
			return false
		}

		_, drop := ignored[e.Identity().Type]

		return drop
	})

	a.log.Debug("dropped ignored declarations",
		zap.Strings("types", slices.Sorted(maps.Keys(ignored))),
		zap.Int("records", len(elements)-len(kept)))

	return kept
}
