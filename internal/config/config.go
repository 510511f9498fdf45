// Package config loads the YAML configuration of the constraint-meta tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"constraint-meta/internal/logger"
	"constraint-meta/internal/tags"
	"constraint-meta/metadata"
)

// Config is the root of the configuration file.
type Config struct {
	// Precedence lists sources from lowest to highest rank.
	Precedence []string `yaml:"precedence,omitempty"`
	// Packages are the go/packages patterns scanned for declarations.
	Packages []string `yaml:"packages,omitempty"`
	// Descriptors are YAML descriptor paths, relative to the config file.
	Descriptors []string `yaml:"descriptors,omitempty"`
	// IgnoreDeclarations disables the struct tag source entirely.
	IgnoreDeclarations bool `yaml:"ignore_declarations,omitempty"`
	// Tags names the struct tag keys.
	Tags tags.Config `yaml:"tags,omitempty"`
	// Log configures logging.
	Log logger.Config `yaml:"log,omitempty"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Packages: []string{"./..."},
		Tags:     tags.DefaultConfig(),
		Log:      logger.DefaultConfig(),
	}
}

// Load reads a configuration file. ${VAR} and ${VAR:-default} references
// are replaced with environment values before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, d := range cfg.Descriptors {
		if !filepath.IsAbs(d) {
			cfg.Descriptors[i] = filepath.Join(base, d)
		}
	}

	return cfg, nil
}

// Parse parses configuration YAML on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader([]byte(substituteEnvVars(string(data)))))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that YAML decoding cannot.
func (c *Config) Validate() error {
	if _, err := c.ResolvePrecedence(); err != nil {
		return err
	}

	if len(c.Packages) == 0 && len(c.Descriptors) > 0 {
		return errors.New("descriptors need at least one package to resolve types against")
	}

	return nil
}

// ResolvePrecedence returns the configured precedence, or the default
// one when none is configured.
func (c *Config) ResolvePrecedence() (metadata.Precedence, error) {
	if len(c.Precedence) == 0 {
		return metadata.DefaultPrecedence(), nil
	}

	return metadata.ParsePrecedence(c.Precedence)
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// ${VAR_NAME:-fallback} uses fallback when the variable is unset or empty.
func substituteEnvVars(content string) string {
	var b strings.Builder

	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}

		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}

		end += start

		name, fallback, _ := strings.Cut(content[start+2:end], ":-")

		value := os.Getenv(name)
		if value == "" {
			value = fallback
		}

		b.WriteString(content[:start])
		b.WriteString(value)
		content = content[end+1:]
	}

	b.WriteString(content)

	return b.String()
}
