package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"constraint-meta/internal/aggregate"
)

func newSourcesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show configured sources and their precedence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agg, cfg, _, err := opts.aggregator(cmd.Context())
			if err != nil {
				return err
			}

			precedence, err := cfg.ResolvePrecedence()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "precedence: %s\n", precedence)
			fmt.Fprintln(out, "sources:")

			for _, p := range agg.Providers() {
				fmt.Fprintf(out, "  - %s\n", p.Name())

				if f, ok := p.(aggregate.DeclarationFilter); ok {
					for _, t := range f.IgnoredTypes() {
						fmt.Fprintf(out, "      ignores declarations of %s\n", t)
					}
				}
			}

			return nil
		},
	}
}
