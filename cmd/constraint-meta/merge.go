package main

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"constraint-meta/internal/aggregate"
)

func newMergeCmd(opts *options) *cobra.Command {
	var (
		format string
		dump   bool
		only   []string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Print merged constraint metadata",
		Long: `Run every configured source, merge their records by precedence and print
one record per program element, grouped by declaring type.

Example:
  constraint-meta merge -p ./store -d constraints.yaml --format yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			agg, _, log, err := opts.aggregator(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			types, err := agg.Run(cmd.Context())
			if err != nil {
				return err
			}

			types = filterTypes(types, only)
			out := cmd.OutOrStdout()

			if dump {
				spew.Fdump(out, types)
				return nil
			}

			switch format {
			case "text":
				return writeText(out, types)
			case "yaml":
				return writeYAML(out, types)
			default:
				return fmt.Errorf("unknown format %q (want text or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, yaml)")
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the merged records with go-spew")
	cmd.Flags().StringSliceVarP(&only, "type", "t", nil, "Only print types whose name contains this text")

	return cmd
}

func filterTypes(types []aggregate.TypeMetadata, only []string) []aggregate.TypeMetadata {
	if len(only) == 0 {
		return types
	}

	var out []aggregate.TypeMetadata

	for _, tm := range types {
		for _, o := range only {
			if strings.Contains(tm.Type, o) {
				out = append(out, tm)
				break
			}
		}
	}

	return out
}
