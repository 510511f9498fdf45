package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constraint-meta/metadata"
)

func TestParse(t *testing.T) {
	t.Setenv("CM_LOG_LEVEL", "debug")

	cfg, err := Parse([]byte(`
precedence: [declaration, api, descriptor]
packages:
  - ./store
descriptors:
  - constraints.yaml
tags:
  constraints: check
log:
  level: ${CM_LOG_LEVEL}
  encoding: ${CM_LOG_ENCODING:-json}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"./store"}, cfg.Packages)
	assert.Equal(t, []string{"constraints.yaml"}, cfg.Descriptors)
	assert.Equal(t, "check", cfg.Tags.Constraints)
	assert.Equal(t, "validate_elem", cfg.Tags.Elements)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)

	p, err := cfg.ResolvePrecedence()
	require.NoError(t, err)

	api, _ := p.Rank(metadata.SourceAPI)
	descriptor, _ := p.Rank(metadata.SourceDescriptor)
	assert.Greater(t, descriptor, api)

	_, ok := p.Rank(metadata.SourceDefault)
	assert.False(t, ok)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"./..."}, cfg.Packages)
	assert.Equal(t, "validate", cfg.Tags.Constraints)
	assert.Equal(t, "info", cfg.Log.Level)

	p, err := cfg.ResolvePrecedence()
	require.NoError(t, err)
	assert.Equal(t, metadata.DefaultPrecedence().String(), p.String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "packagez: [./...]\n"},
		{"unknown source", "precedence: [declaration, database]\n"},
		{"duplicate source", "precedence: [api, api]\n"},
		{"descriptors without packages", "packages: []\ndescriptors: [a.yaml]\n"},
		{"not yaml", "packages: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_RelativeDescriptors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "constraint-meta.yaml")
	abs := filepath.Join(dir, "abs.yaml")

	require.NoError(t, os.WriteFile(path, []byte("descriptors: [rel/a.yaml, "+abs+"]\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "rel", "a.yaml"), abs}, cfg.Descriptors)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("CM_SET", "value")
	t.Setenv("CM_EMPTY", "")

	tests := map[string]string{
		"plain":                   "plain",
		"${CM_SET}":               "value",
		"a ${CM_SET} b ${CM_SET}": "a value b value",
		"${CM_UNSET_VAR}":         "",
		"${CM_EMPTY:-fallback}":   "fallback",
		"${CM_SET:-fallback}":     "value",
		"open ${CM_SET":           "open ${CM_SET",
	}

	for in, want := range tests {
		assert.Equal(t, want, substituteEnvVars(in), in)
	}
}
