package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"constraint-meta/internal/aggregate"
	"constraint-meta/internal/config"
	"constraint-meta/internal/logger"
)

// options are the flags shared by all commands.
type options struct {
	configFile         string
	packages           []string
	descriptors        []string
	precedence         []string
	logLevel           string
	ignoreDeclarations bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "constraint-meta",
		Short: "Merge constraint metadata from tags, descriptors and code",
		Long: `constraint-meta reads constraint declarations from Go struct tags and
method directives, YAML descriptors and programmatic mappings, and merges
them into one record per program element using a configurable source
precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to configuration YAML file")
	flags.StringSliceVarP(&opts.packages, "package", "p", nil, "Package patterns to scan (overrides config)")
	flags.StringSliceVarP(&opts.descriptors, "descriptor", "d", nil, "Descriptor files to read (added to config)")
	flags.StringSliceVar(&opts.precedence, "precedence", nil, "Sources from lowest to highest rank, e.g. declaration,descriptor,api")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.ignoreDeclarations, "ignore-declarations", false, "Skip struct tags and directives")

	root.AddCommand(
		newMergeCmd(opts),
		newCheckCmd(opts),
		newSourcesCmd(opts),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "constraint-meta v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// load resolves the configuration from file and flags.
func (o *options) load() (*config.Config, error) {
	cfg := config.Default()

	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if len(o.packages) > 0 {
		cfg.Packages = o.packages
	}

	cfg.Descriptors = append(cfg.Descriptors, o.descriptors...)

	if len(o.precedence) > 0 {
		cfg.Precedence = o.precedence
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if o.ignoreDeclarations {
		cfg.IgnoreDeclarations = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// aggregator builds the configured aggregator and its logger.
func (o *options) aggregator(ctx context.Context) (*aggregate.Aggregator, *config.Config, *zap.Logger, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	agg, err := aggregate.FromConfig(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	return agg, cfg, log, nil
}
