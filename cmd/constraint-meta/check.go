package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"constraint-meta/internal/aggregate"
	"constraint-meta/internal/analyze"
	"constraint-meta/internal/config"
	"constraint-meta/internal/descriptor"
	"constraint-meta/internal/diagnostic"
	"constraint-meta/internal/logger"
	"constraint-meta/internal/tags"
	"constraint-meta/metadata"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate declarations and descriptors",
		Long: `Read struct tags, method directives and descriptors and report every
problem found. When every source is clean the records are also merged,
so precedence and cross-source conflicts are reported too.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}

			defer func() { _ = log.Sync() }()

			graph, err := analyze.NewAnalyzer().LoadPackages(cmd.Context(), cfg.Packages...)
			if err != nil {
				return fmt.Errorf("failed to load packages: %w", err)
			}

			diags := &diagnostic.Diagnostics{}

			var providers []aggregate.Provider

			if !cfg.IgnoreDeclarations {
				src := tags.NewSource(graph, cfg.Tags, log)
				_, found := src.Discover()
				diags.Merge(*found)
				providers = append(providers, src)
			}

			docs, err := descriptor.LoadFiles(cfg.Descriptors...)
			if err != nil {
				return err
			}

			src := descriptor.NewSource(graph, docs, log)
			_, found := src.Discover()
			diags.Merge(*found)
			providers = append(providers, src)

			if !diags.HasErrors() {
				checkMerge(cmd.Context(), cfg, log, providers, diags)
			}

			out := cmd.OutOrStdout()
			printDiagnostics(out, diags)

			if diags.HasErrors() {
				return fmt.Errorf("found %d error(s)", len(diags.Errors))
			}

			fmt.Fprintln(out, "ok")

			return nil
		},
	}
}

// checkMerge merges the records of providers and reports a failure as an
// error diagnostic.
func checkMerge(ctx context.Context, cfg *config.Config, log *zap.Logger, providers []aggregate.Provider, diags *diagnostic.Diagnostics) {
	precedence, err := cfg.ResolvePrecedence()
	if err == nil {
		_, err = aggregate.New(precedence, log, providers...).Run(ctx)
	}

	if err != nil {
		diags.AddError(metadata.ErrorCode(err), err.Error(), "", "merge")
	}
}

func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics) {
	for _, group := range [][]diagnostic.Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, item := range group {
			fmt.Fprintf(w, "%s: %s\n", item.Severity, item)
		}
	}
}
