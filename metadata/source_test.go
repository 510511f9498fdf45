package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		input    string
		expected ConfigurationSource
	}{
		{"default", SourceDefault},
		{"annotation", SourceDeclaration},
		{" Tag ", SourceDeclaration},
		{"xml", SourceDescriptor},
		{"descriptor", SourceDescriptor},
		{"programmatic", SourceAPI},
		{"API", SourceAPI},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSource(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseSource("database")
	assert.Error(t, err)
}

func TestPrecedence(t *testing.T) {
	p := DefaultPrecedence()
	assert.Equal(t, "default < declaration < descriptor < api", p.String())

	low, ok := p.Rank(SourceDeclaration)
	require.True(t, ok)

	high, ok := p.Rank(SourceAPI)
	require.True(t, ok)
	assert.Less(t, low, high)

	custom, err := ParsePrecedence([]string{"descriptor", "annotation"})
	require.NoError(t, err)
	assert.Equal(t, []ConfigurationSource{SourceDescriptor, SourceDeclaration}, custom.Sources())

	_, ok = custom.Rank(SourceAPI)
	assert.False(t, ok)
}

func TestPrecedence_Invalid(t *testing.T) {
	_, err := NewPrecedence()
	assert.ErrorIs(t, err, ErrInvalidPrecedence)

	_, err = NewPrecedence(SourceAPI, SourceAPI)
	assert.ErrorIs(t, err, ErrInvalidPrecedence)

	_, err = NewPrecedence(ConfigurationSource(42))
	assert.ErrorIs(t, err, ErrInvalidPrecedence)

	_, err = ParsePrecedence([]string{"api", "nope"})
	assert.ErrorIs(t, err, ErrInvalidPrecedence)

	assert.True(t, Precedence{}.IsZero())
}

func TestParseUnwrapPolicy(t *testing.T) {
	for input, expected := range map[string]UnwrapPolicy{
		"":            UnwrapDefault,
		"automatic":   UnwrapDefault,
		"unwrap":      UnwrapAlways,
		"skip_unwrap": UnwrapSkip,
	} {
		got, err := ParseUnwrapPolicy(input)
		require.NoError(t, err)
		assert.Equal(t, expected, got, input)
	}

	_, err := ParseUnwrapPolicy("sometimes")
	assert.Error(t, err)
}
