package tags

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"constraint-meta/internal/analyze"
	"constraint-meta/internal/diagnostic"
	"constraint-meta/internal/logger"
	"constraint-meta/internal/suggest"
	"constraint-meta/metadata"
)

// Flag tokens accepted in constraint lists.
const (
	tokenValid  = "valid"
	tokenUnwrap = "unwrap"
)

// Config names the struct tag keys the source reads.
type Config struct {
	Constraints string `yaml:"constraints"` // direct constraints and flags
	Elements    string `yaml:"elements"`    // container element constraints
	Conversions string `yaml:"conversions"` // group conversions
}

// DefaultConfig returns the "validate", "validate_elem" and "convert" keys.
func DefaultConfig() Config {
	return Config{
		Constraints: "validate",
		Elements:    "validate_elem",
		Conversions: "convert",
	}
}

// withDefaults fills empty keys from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Constraints == "" {
		c.Constraints = d.Constraints
	}

	if c.Elements == "" {
		c.Elements = d.Elements
	}

	if c.Conversions == "" {
		c.Conversions = d.Conversions
	}

	return c
}

// Source reads declarations from the types of a TypeGraph.
type Source struct {
	graph *analyze.TypeGraph
	cfg   Config
	log   *zap.Logger
}

// NewSource creates a source over graph. A nil logger disables logging.
func NewSource(graph *analyze.TypeGraph, cfg Config, log *zap.Logger) *Source {
	if log == nil {
		log = logger.Nop()
	}

	return &Source{
		graph: graph,
		cfg:   cfg.withDefaults(),
		log:   log.Named("tags"),
	}
}

// Name identifies the source in logs and errors.
func (s *Source) Name() string {
	return "tags"
}

// Provide discovers all declarations and fails if any of them is invalid.
func (s *Source) Provide(ctx context.Context) ([]metadata.ConstrainedElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	elements, diags := s.Discover()

	for _, w := range diags.Warnings {
		s.log.Warn("declaration warning", zap.String("diagnostic", w.String()))
	}

	if err := diags.Error(); err != nil {
		return nil, fmt.Errorf("invalid constraint declarations: %w", err)
	}

	return elements, nil
}

// Discover returns the declarations of every type in the graph, ordered by
// type name, together with the problems found while reading them.
func (s *Source) Discover() ([]metadata.ConstrainedElement, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}

	if s.graph == nil {
		diags.AddError("graph_is_nil", "type graph is nil", "", "")
		return nil, diags
	}

	ids := slices.SortedFunc(maps.Keys(s.graph.Types), func(a, b analyze.TypeID) int {
		return strings.Compare(a.String(), b.String())
	})

	var out []metadata.ConstrainedElement

	for _, id := range ids {
		found := s.TypeElements(s.graph.Types[id], diags)
		if len(found) > 0 {
			s.log.Debug("discovered declarations", zap.Stringer("type", id), zap.Int("elements", len(found)))
		}

		out = append(out, found...)
	}

	return out, diags
}

// TypeElements returns the declarations of a single type.
func (s *Source) TypeElements(t *analyze.TypeInfo, diags *diagnostic.Diagnostics) []metadata.ConstrainedElement {
	if t == nil || !t.IsNamed() {
		return nil
	}

	owner := t.ID.String()

	var out []metadata.ConstrainedElement

	if e := s.typeElement(owner, t, diags); e != nil {
		out = append(out, e)
	}

	for i := range t.Fields {
		if e := s.fieldElement(owner, &t.Fields[i], diags); e != nil {
			out = append(out, e)
		}
	}

	for i := range t.Methods {
		out = append(out, s.methodElements(owner, &t.Methods[i], diags)...)
	}

	return out
}

func (s *Source) typeElement(owner string, t *analyze.TypeInfo, diags *diagnostic.Diagnostics) metadata.ConstrainedElement {
	var (
		attrs metadata.Attributes
		found bool
	)

	for _, d := range t.Directives {
		verb, rest, _ := strings.Cut(strings.TrimSpace(d), " ")
		if verb != "type" {
			diags.AddError("misplaced_directive",
				fmt.Sprintf("directive %q is not allowed on a type", verb), owner, analyze.DirectivePrefix+d)

			continue
		}

		found = true
		s.parseConstraints(rest, &attrs.Constraints, owner, diags)
	}

	if !found {
		return nil
	}

	e, err := metadata.NewType(metadata.SourceDeclaration, owner, attrs)
	if err != nil {
		diags.AddError("invalid_element", err.Error(), owner, "")
		return nil
	}

	return e
}

func (s *Source) fieldElement(owner string, f *analyze.FieldInfo, diags *diagnostic.Diagnostics) metadata.ConstrainedElement {
	cons, hasCons := f.LookupTag(s.cfg.Constraints)
	elems, hasElems := f.LookupTag(s.cfg.Elements)
	conv, hasConv := f.LookupTag(s.cfg.Conversions)

	if !hasCons && !hasElems && !hasConv {
		return nil
	}

	element := owner + "." + f.Name

	var attrs metadata.Attributes

	s.parseTokens(cons, &attrs, element, diags)

	if hasElems {
		if !f.Type.IsContainer() {
			diags.AddWarning("element_constraints_on_non_container",
				fmt.Sprintf("%s constraints on a field of type %s have no effect",
					s.cfg.Elements, analyze.NewTypeStringer("").TypeString(f.Type)),
				element, s.cfg.Elements+" tag")
		}

		s.parseConstraints(elems, &attrs.TypeArgumentConstraints, element, diags)
	}

	if hasConv {
		attrs.GroupConversions = s.parseConversions(conv, element, diags)

		if !attrs.Cascading {
			diags.AddError("conversion_without_cascade",
				"group conversions require cascading; add \"valid\" to the "+s.cfg.Constraints+" tag",
				element, s.cfg.Conversions+" tag")
		}
	}

	e, err := metadata.NewField(metadata.SourceDeclaration, owner, f.Name, attrs)
	if err != nil {
		diags.AddError(metadata.ErrorCode(err), err.Error(), element, s.cfg.Conversions+" tag")
		return nil
	}

	return e
}

// methodAttributes collects directive declarations of one method.
type methodAttributes struct {
	params   map[int]*metadata.Attributes
	ret      *metadata.Attributes
	cross    *metadata.Attributes
	property *metadata.Attributes
}

func (s *Source) methodElements(owner string, m *analyze.MethodInfo, diags *diagnostic.Diagnostics) []metadata.ConstrainedElement {
	if len(m.Directives) == 0 {
		return nil
	}

	exec := metadata.Executable{Owner: owner, Name: m.Name, ParamTypes: m.ParamTypes()}
	element := exec.String()
	ma := methodAttributes{params: map[int]*metadata.Attributes{}}

	for _, d := range m.Directives {
		location := analyze.DirectivePrefix + d
		verb, rest, _ := strings.Cut(strings.TrimSpace(d), " ")

		switch verb {
		case "param":
			ref, list, _ := strings.Cut(strings.TrimSpace(rest), " ")

			idx := paramIndex(m, ref)
			if idx < 0 {
				diags.AddErrorWithSuggestions("unknown_parameter", fmt.Sprintf("method has no parameter %q", ref),
					element, location, suggest.Names(ref, m.ParamNames(), 0))
				continue
			}

			if ma.params[idx] == nil {
				ma.params[idx] = &metadata.Attributes{}
			}

			s.parseTokens(list, ma.params[idx], element, diags)

		case "return":
			if len(m.Results) == 0 {
				diags.AddError("no_return_value", "method has no return value", element, location)
				continue
			}

			ma.ret = s.appendTokens(ma.ret, rest, element, diags)

		case "cross":
			ma.cross = s.appendTokens(ma.cross, rest, element, diags)

		case "property":
			if !m.IsGetter() {
				diags.AddError("not_a_getter", "property directives need a method without parameters returning one value", element, location)
				continue
			}

			ma.property = s.appendTokens(ma.property, rest, element, diags)

		default:
			diags.AddError("unknown_directive", fmt.Sprintf("unknown directive %q on a method", verb), element, location)
		}
	}

	return s.buildMethodElements(owner, exec, m, ma, diags)
}

func (s *Source) buildMethodElements(
	owner string,
	exec metadata.Executable,
	m *analyze.MethodInfo,
	ma methodAttributes,
	diags *diagnostic.Diagnostics,
) []metadata.ConstrainedElement {
	var out []metadata.ConstrainedElement

	add := func(e metadata.ConstrainedElement, err error) {
		if err != nil {
			diags.AddError(metadata.ErrorCode(err), err.Error(), exec.String(), "")
			return
		}

		out = append(out, e)
	}

	if ma.property != nil {
		add(metadata.NewProperty(metadata.SourceDeclaration, owner, "", m.Name, *ma.property))
	}

	if ma.cross != nil {
		add(metadata.NewCrossParameter(metadata.SourceDeclaration, exec, *ma.cross))
	}

	for _, idx := range slices.Sorted(maps.Keys(ma.params)) {
		add(metadata.NewParameter(metadata.SourceDeclaration, exec, idx, m.Params[idx].Name, *ma.params[idx]))
	}

	if ma.ret != nil {
		add(metadata.NewReturnValue(metadata.SourceDeclaration, exec, *ma.ret))
	}

	return out
}

// appendTokens parses list into attrs, allocating attrs if needed.
func (s *Source) appendTokens(attrs *metadata.Attributes, list, element string, diags *diagnostic.Diagnostics) *metadata.Attributes {
	if attrs == nil {
		attrs = &metadata.Attributes{}
	}

	s.parseTokens(list, attrs, element, diags)

	return attrs
}

// parseTokens reads a ';' separated list of constraints and flags.
func (s *Source) parseTokens(list string, attrs *metadata.Attributes, element string, diags *diagnostic.Diagnostics) {
	for _, tok := range metadata.SplitList(list, ';') {
		name, value, hasValue := strings.Cut(tok, "=")

		switch name {
		case tokenValid:
			cascade := true

			if hasValue {
				b, err := strconv.ParseBool(value)
				if err != nil {
					diags.AddError("invalid_valid_flag", fmt.Sprintf("valid takes a boolean, got %q", value), element, tok)
					continue
				}

				cascade = b
			}

			attrs.Cascading = attrs.Cascading || cascade

		case tokenUnwrap:
			policy := metadata.UnwrapAlways

			if hasValue {
				p, err := metadata.ParseUnwrapPolicy(value)
				if err != nil {
					diags.AddError("invalid_unwrap_policy", err.Error(), element, tok)
					continue
				}

				policy = p
			}

			attrs.Unwrap = policy

		default:
			c, err := metadata.ParseConstraint(tok)
			if err != nil {
				diags.AddError("invalid_constraint", err.Error(), element, tok)
				continue
			}

			attrs.Constraints = append(attrs.Constraints, c)
		}
	}
}

// parseConstraints reads a ';' separated list of constraints only.
func (s *Source) parseConstraints(list string, dst *[]metadata.MetaConstraint, element string, diags *diagnostic.Diagnostics) {
	for _, tok := range metadata.SplitList(list, ';') {
		c, err := metadata.ParseConstraint(tok)
		if err != nil {
			diags.AddError("invalid_constraint", err.Error(), element, tok)
			continue
		}

		*dst = append(*dst, c)
	}
}

// parseConversions reads "From:To" pairs separated by ','.
func (s *Source) parseConversions(list, element string, diags *diagnostic.Diagnostics) map[metadata.Group]metadata.Group {
	out := map[metadata.Group]metadata.Group{}

	for _, item := range metadata.SplitList(list, ',') {
		from, to, ok := strings.Cut(item, ":")
		if !ok {
			diags.AddError("invalid_group_conversion", fmt.Sprintf("%q is not From:To", item), element, item)
			continue
		}

		key := metadata.Group(strings.TrimSpace(from))
		if _, dup := out[key]; dup {
			diags.AddError("duplicate_group_conversion", fmt.Sprintf("group %q is converted twice", key), element, item)
			continue
		}

		out[key] = metadata.Group(strings.TrimSpace(to))
	}

	return out
}

// paramIndex resolves a parameter reference given by name or position.
func paramIndex(m *analyze.MethodInfo, ref string) int {
	if i, err := strconv.Atoi(ref); err == nil {
		if i >= 0 && i < len(m.Params) {
			return i
		}

		return -1
	}

	return m.ParamIndex(ref)
}
