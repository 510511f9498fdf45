// Package main provides the CLI entrypoint for constraint-meta.
//
// constraint-meta collects constraint metadata from struct tags, YAML
// descriptors and code, merges it by precedence and prints one record
// per program element:
//   - merge: print merged metadata as text, YAML or a debug dump
//   - check: validate declarations and descriptors without merging
//   - sources: show the configured sources and their precedence
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
