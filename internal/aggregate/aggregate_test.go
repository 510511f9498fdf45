package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"constraint-meta/metadata"
)

type staticProvider struct {
	name     string
	elements []metadata.ConstrainedElement
	err      error
	ignored  []string
}

func (p *staticProvider) Name() string { return p.name }

func (p *staticProvider) Provide(ctx context.Context) ([]metadata.ConstrainedElement, error) {
	if p.err != nil {
		return nil, p.err
	}

	return p.elements, ctx.Err()
}

type filteringProvider struct {
	staticProvider
}

func (p *filteringProvider) IgnoredTypes() []string { return p.ignored }

func field(t *testing.T, src metadata.ConfigurationSource, owner, name string, constraints ...string) metadata.ConstrainedElement {
	t.Helper()

	var cs []metadata.MetaConstraint
	for _, c := range constraints {
		cs = append(cs, metadata.NewConstraint(c, nil))
	}

	f, err := metadata.NewField(src, owner, name, metadata.Attributes{Constraints: cs})
	require.NoError(t, err)

	return f
}

func TestAggregator_Run(t *testing.T) {
	declared := &staticProvider{name: "tags", elements: []metadata.ConstrainedElement{
		field(t, metadata.SourceDeclaration, "m.User", "Email", "NotNull"),
		field(t, metadata.SourceDeclaration, "m.User", "Name", "NotBlank"),
		field(t, metadata.SourceDeclaration, "m.Account", "ID", "Positive"),
	}}
	described := &staticProvider{name: "descriptor", elements: []metadata.ConstrainedElement{
		field(t, metadata.SourceDescriptor, "m.User", "Email", "Email"),
	}}

	types, err := New(metadata.DefaultPrecedence(), zaptest.NewLogger(t), declared, described).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)

	assert.Equal(t, "m.Account", types[0].Type)
	assert.Equal(t, "m.User", types[1].Type)

	user := types[1]
	require.Len(t, user.Elements, 2)

	email, ok := user.Element(metadata.Key{Kind: metadata.KindField, Identity: metadata.Identity{Type: "m.User", Member: "Email"}})
	require.True(t, ok)
	assert.Equal(t, []string{"Email", "NotNull"}, email.Constraints().Keys())
	assert.Equal(t, metadata.SourceDescriptor, email.Source())

	assert.Equal(t, 3, user.Constraints())

	var fields int
	for range user.OfKind(metadata.KindField) {
		fields++
	}

	assert.Equal(t, 2, fields)
	assert.Empty(t, slicesOf(user.OfKind(metadata.KindType)))
}

func slicesOf(seq func(func(metadata.ConstrainedElement) bool)) []metadata.ConstrainedElement {
	var out []metadata.ConstrainedElement
	for e := range seq {
		out = append(out, e)
	}

	return out
}

func TestAggregator_IgnoredDeclarations(t *testing.T) {
	declared := &staticProvider{name: "tags", elements: []metadata.ConstrainedElement{
		field(t, metadata.SourceDeclaration, "m.User", "Email", "NotNull"),
		field(t, metadata.SourceDeclaration, "m.Account", "ID", "Positive"),
	}}
	described := &filteringProvider{staticProvider{
		name:    "descriptor",
		ignored: []string{"m.User"},
		elements: []metadata.ConstrainedElement{
			field(t, metadata.SourceDescriptor, "m.User", "Email", "Email"),
		},
	}}

	types, err := New(metadata.DefaultPrecedence(), nil, declared, described).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)

	user := types[1]
	require.Len(t, user.Elements, 1)
	assert.Equal(t, []string{"Email"}, user.Elements[0].Constraints().Keys())

	assert.Equal(t, []string{"Positive"}, types[0].Elements[0].Constraints().Keys())
}

func TestAggregator_Errors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("provider error", func(t *testing.T) {
		ok := &staticProvider{name: "ok"}
		bad := &staticProvider{name: "bad", err: boom}

		_, err := New(metadata.DefaultPrecedence(), nil, ok, bad).Run(context.Background())
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "source bad")
	})

	t.Run("merge error", func(t *testing.T) {
		p := &staticProvider{name: "tags", elements: []metadata.ConstrainedElement{
			field(t, metadata.SourceDeclaration, "m.User", "Email"),
		}}

		precedence, err := metadata.NewPrecedence(metadata.SourceAPI)
		require.NoError(t, err)

		_, err = New(precedence, nil, p).Run(context.Background())
		assert.ErrorIs(t, err, metadata.ErrUnrankedSource)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(metadata.DefaultPrecedence(), nil, &staticProvider{name: "x"}).Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAggregator_NoProviders(t *testing.T) {
	a := New(metadata.DefaultPrecedence(), nil)
	assert.Empty(t, a.Providers())

	types, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, types)
}
