package descriptor

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"constraint-meta/internal/analyze"
	"constraint-meta/internal/diagnostic"
	"constraint-meta/internal/logger"
	"constraint-meta/internal/suggest"
	"constraint-meta/metadata"
)

// Source turns descriptor documents into metadata.SourceDescriptor records.
// Bean classes and members are resolved against a TypeGraph.
type Source struct {
	graph *analyze.TypeGraph
	docs  []Document
	log   *zap.Logger
}

// NewSource creates a source over docs. A nil logger disables logging.
func NewSource(graph *analyze.TypeGraph, docs []Document, log *zap.Logger) *Source {
	if log == nil {
		log = logger.Nop()
	}

	return &Source{graph: graph, docs: docs, log: log.Named("descriptor")}
}

// Name identifies the source in logs and errors.
func (s *Source) Name() string {
	return "descriptor"
}

// Provide builds all records and fails if any descriptor is invalid.
func (s *Source) Provide(ctx context.Context) ([]metadata.ConstrainedElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	elements, diags := s.Discover()

	for _, w := range diags.Warnings {
		s.log.Warn("descriptor warning", zap.String("diagnostic", w.String()))
	}

	for _, i := range diags.Infos {
		s.log.Info("descriptor", zap.String("diagnostic", i.String()))
	}

	if err := diags.Error(); err != nil {
		return nil, fmt.Errorf("invalid constraint descriptors: %w", err)
	}

	return elements, nil
}

// Discover builds the records of every document in order.
func (s *Source) Discover() ([]metadata.ConstrainedElement, *diagnostic.Diagnostics) {
	b := newBuilder(s.graph)
	if s.graph == nil {
		b.diags.AddError("graph_is_nil", "type graph is nil", "", "")
		return nil, b.diags
	}

	for _, doc := range s.docs {
		before := len(b.out)
		b.document(doc)
		s.log.Debug("read descriptor", zap.String("path", doc.Path), zap.Int("elements", len(b.out)-before))
	}

	return b.out, b.diags
}

// IgnoredTypes returns the sorted qualified names of the types whose beans
// set ignore_annotations.
func (s *Source) IgnoredTypes() []string {
	var out []string

	for _, doc := range s.docs {
		if doc.File == nil {
			continue
		}

		for _, bean := range doc.File.Beans {
			if !bean.IgnoreAnnotations {
				continue
			}

			if t := resolveClass(s.graph, doc.File, bean.Class); t != nil {
				out = append(out, t.ID.String())
			}
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}

func resolveClass(graph *analyze.TypeGraph, f *File, class string) *analyze.TypeInfo {
	name := class
	if f.DefaultPackage != "" && !strings.Contains(class, ".") {
		name = f.DefaultPackage + "." + class
	}

	return graph.Resolve(name)
}

// builder accumulates records and findings across documents.
type builder struct {
	graph *analyze.TypeGraph
	diags *diagnostic.Diagnostics
	beans map[string]string // qualified type -> location of its bean
	out   []metadata.ConstrainedElement
}

func newBuilder(graph *analyze.TypeGraph) *builder {
	return &builder{
		graph: graph,
		diags: &diagnostic.Diagnostics{},
		beans: map[string]string{},
	}
}

func (b *builder) add(e metadata.ConstrainedElement, err error, element, loc string) {
	if err != nil {
		b.diags.AddError(metadata.ErrorCode(err), err.Error(), element, loc)
		return
	}

	b.out = append(b.out, e)
}

func (b *builder) document(doc Document) {
	if doc.File == nil {
		b.diags.AddError("descriptor_is_nil", "descriptor is nil", "", doc.Path)
		return
	}

	for i := range doc.File.Beans {
		b.bean(doc, &doc.File.Beans[i], fmt.Sprintf("%s: beans[%d]", doc.Path, i))
	}
}

func (b *builder) bean(doc Document, bean *Bean, loc string) {
	t := resolveClass(b.graph, doc.File, bean.Class)
	if t == nil {
		b.diags.AddErrorWithSuggestions("type_not_found", fmt.Sprintf("type %q not found", bean.Class), bean.Class, loc,
			suggest.Names(bean.Class, b.graph.ShortNames(), 0))
		return
	}

	owner := t.ID.String()

	if first, dup := b.beans[owner]; dup {
		b.diags.AddError("duplicate_bean",
			fmt.Sprintf("type is configured more than once, first at %s", first), owner, loc)

		return
	}

	b.beans[owner] = loc

	if bean.IgnoreAnnotations {
		b.diags.AddInfo("declarations_ignored", "declarations in Go source are ignored", owner, loc)
	}

	if !bean.Constraints.IsEmpty() {
		var attrs metadata.Attributes

		attrs.Constraints = b.constraints(bean.Constraints, owner, loc+".constraints")
		e, err := metadata.NewType(metadata.SourceDescriptor, owner, attrs)
		b.add(e, err, owner, loc)
	}

	b.fields(t, bean.Fields, loc)
	b.getters(t, bean.Getters, loc)
	b.methods(t, bean.Methods, loc)
}

func (b *builder) fields(t *analyze.TypeInfo, fields []Member, beanLoc string) {
	owner := t.ID.String()
	seen := map[string]struct{}{}

	for i := range fields {
		m := &fields[i]
		loc := fmt.Sprintf("%s.fields[%d]", beanLoc, i)
		element := owner + "." + m.Name

		f := t.Field(m.Name)
		if f == nil {
			b.diags.AddErrorWithSuggestions("field_not_found", fmt.Sprintf("field %q not found in %s", m.Name, owner),
				element, loc, suggest.Names(m.Name, t.FieldNames(), 0))
			continue
		}

		if _, dup := seen[m.Name]; dup {
			b.diags.AddError("duplicate_field", fmt.Sprintf("field %q is configured more than once", m.Name), element, loc)
			continue
		}

		seen[m.Name] = struct{}{}

		attrs := b.attributes(&m.Constrained, f.Type, element, loc)
		e, err := metadata.NewField(metadata.SourceDescriptor, owner, f.Name, attrs)
		b.add(e, err, element, loc)
	}
}

func (b *builder) getters(t *analyze.TypeInfo, getters []Member, beanLoc string) {
	owner := t.ID.String()
	seen := map[string]struct{}{}

	for i := range getters {
		m := &getters[i]
		loc := fmt.Sprintf("%s.getters[%d]", beanLoc, i)
		element := owner + "." + m.Name

		mi := t.Method(m.Name)
		if mi == nil {
			mi = t.Method("Get" + m.Name)
		}

		if mi == nil {
			b.diags.AddErrorWithSuggestions("getter_not_found", fmt.Sprintf("getter %q not found in %s", m.Name, owner),
				element, loc, suggest.Names(m.Name, t.MethodNames((*analyze.MethodInfo).IsGetter), 0))
			continue
		}

		if !mi.IsGetter() {
			b.diags.AddError("not_a_getter",
				fmt.Sprintf("method %s must have no parameters and one result", mi.Name), element, loc)

			continue
		}

		if _, dup := seen[mi.Name]; dup {
			b.diags.AddError("duplicate_getter", fmt.Sprintf("getter %s is configured more than once", mi.Name), element, loc)
			continue
		}

		seen[mi.Name] = struct{}{}

		attrs := b.attributes(&m.Constrained, mi.Results[0], element, loc)
		e, err := metadata.NewProperty(metadata.SourceDescriptor, owner, "", mi.Name, attrs)
		b.add(e, err, element, loc)
	}
}

func (b *builder) methods(t *analyze.TypeInfo, methods []MethodDef, beanLoc string) {
	owner := t.ID.String()
	seen := map[string]struct{}{}

	for i := range methods {
		md := &methods[i]
		loc := fmt.Sprintf("%s.methods[%d]", beanLoc, i)

		mi := t.Method(md.Name)
		if mi == nil {
			b.diags.AddErrorWithSuggestions("method_not_found",
				fmt.Sprintf("method %q not found in %s", md.Name, owner), owner+"."+md.Name, loc,
				suggest.Names(md.Name, t.MethodNames(nil), 0))

			continue
		}

		if _, dup := seen[md.Name]; dup {
			b.diags.AddError("duplicate_method",
				fmt.Sprintf("method %q is configured more than once", md.Name), owner+"."+md.Name, loc)

			continue
		}

		seen[md.Name] = struct{}{}

		exec := metadata.Executable{Owner: owner, Name: mi.Name, ParamTypes: mi.ParamTypes()}
		b.method(exec, mi, md, loc)
	}
}

func (b *builder) method(exec metadata.Executable, mi *analyze.MethodInfo, md *MethodDef, loc string) {
	element := exec.String()
	seen := map[int]struct{}{}

	for i := range md.Parameters {
		pd := &md.Parameters[i]
		ploc := fmt.Sprintf("%s.parameters[%d]", loc, i)

		idx, ok := b.parameterIndex(mi, pd, element, ploc)
		if !ok {
			continue
		}

		if _, dup := seen[idx]; dup {
			b.diags.AddError("duplicate_parameter", fmt.Sprintf("parameter %d is configured more than once", idx), element, ploc)
			continue
		}

		seen[idx] = struct{}{}

		attrs := b.attributes(&pd.Constrained, mi.Params[idx].Type, element, ploc)
		e, err := metadata.NewParameter(metadata.SourceDescriptor, exec, idx, mi.Params[idx].Name, attrs)
		b.add(e, err, element, ploc)
	}

	if cp := md.CrossParameter; cp != nil {
		cloc := loc + ".cross_parameter"

		if !cp.ElementConstraints.IsEmpty() || cp.Valid || len(cp.ConvertGroups) > 0 || cp.Unwrap != "" {
			b.diags.AddError("invalid_cross_parameter",
				"cross-parameter elements only accept constraints", element, cloc)
		} else {
			attrs := metadata.Attributes{Constraints: b.constraints(cp.Constraints, element, cloc)}
			e, err := metadata.NewCrossParameter(metadata.SourceDescriptor, exec, attrs)
			b.add(e, err, element, cloc)
		}
	}

	if rv := md.ReturnValue; rv != nil {
		rloc := loc + ".return_value"

		if len(mi.Results) == 0 {
			b.diags.AddError("no_return_value", "method has no return value", element, rloc)
			return
		}

		attrs := b.attributes(rv, mi.Results[0], element, rloc)
		e, err := metadata.NewReturnValue(metadata.SourceDescriptor, exec, attrs)
		b.add(e, err, element, rloc)
	}
}

// parameterIndex resolves a parameter given by index, name or both.
func (b *builder) parameterIndex(mi *analyze.MethodInfo, pd *ParameterDef, element, loc string) (int, bool) {
	byName := -1
	if pd.Name != "" {
		byName = mi.ParamIndex(pd.Name)
		if byName < 0 {
			b.diags.AddErrorWithSuggestions("parameter_not_found", fmt.Sprintf("method has no parameter %q", pd.Name),
				element, loc, suggest.Names(pd.Name, mi.ParamNames(), 0))
			return 0, false
		}
	}

	if pd.Index == nil {
		if byName < 0 {
			b.diags.AddError("parameter_unaddressed", "parameter needs an index or a name", element, loc)
			return 0, false
		}

		return byName, true
	}

	idx := *pd.Index
	if idx < 0 || idx >= len(mi.Params) {
		b.diags.AddError("parameter_not_found",
			fmt.Sprintf("parameter index %d out of range, method has %d parameters", idx, len(mi.Params)), element, loc)

		return 0, false
	}

	if byName >= 0 && byName != idx {
		b.diags.AddError("parameter_mismatch",
			fmt.Sprintf("parameter %q is at index %d, not %d", pd.Name, byName, idx), element, loc)

		return 0, false
	}

	return idx, true
}

// attributes converts the declared attributes of an element whose value
// has type typ.
func (b *builder) attributes(c *Constrained, typ *analyze.TypeInfo, element, loc string) metadata.Attributes {
	attrs := metadata.Attributes{
		Constraints: b.constraints(c.Constraints, element, loc+".constraints"),
		Cascading:   c.Valid,
	}

	if !c.ElementConstraints.IsEmpty() {
		if typ != nil && !typ.IsContainer() {
			b.diags.AddWarning("element_constraints_on_non_container",
				fmt.Sprintf("element constraints on a value of type %s have no effect",
					analyze.NewTypeStringer("").TypeString(typ)),
				element, loc+".element_constraints")
		}

		attrs.TypeArgumentConstraints = b.constraints(c.ElementConstraints, element, loc+".element_constraints")
	}

	if len(c.ConvertGroups) > 0 {
		attrs.GroupConversions = b.conversions(c.ConvertGroups, element, loc+".convert_group")

		if !c.Valid {
			b.diags.AddError("conversion_without_cascade",
				"group conversions require cascading; set valid: true", element, loc+".convert_group")
		}
	}

	if c.Unwrap != "" {
		policy, err := metadata.ParseUnwrapPolicy(c.Unwrap)
		if err != nil {
			b.diags.AddError("invalid_unwrap_policy", err.Error(), element, loc+".unwrap")
		}

		attrs.Unwrap = policy
	}

	return attrs
}

func (b *builder) constraints(list StringOrArray, element, loc string) []metadata.MetaConstraint {
	out := make([]metadata.MetaConstraint, 0, len(list))

	for i, s := range list {
		c, err := metadata.ParseConstraint(s)
		if err != nil {
			b.diags.AddError("invalid_constraint", err.Error(), element, fmt.Sprintf("%s[%d]", loc, i))
			continue
		}

		out = append(out, c)
	}

	return out
}

func (b *builder) conversions(defs []GroupConversionDef, element, loc string) map[metadata.Group]metadata.Group {
	out := make(map[metadata.Group]metadata.Group, len(defs))

	for i, d := range defs {
		iloc := fmt.Sprintf("%s[%d]", loc, i)

		if d.From == "" || d.To == "" {
			b.diags.AddError("invalid_group_conversion", "group conversion needs both from and to", element, iloc)
			continue
		}

		from := metadata.Group(d.From)
		if _, dup := out[from]; dup {
			b.diags.AddError("duplicate_group_conversion", fmt.Sprintf("group %q is converted twice", from), element, iloc)
			continue
		}

		out[from] = metadata.Group(d.To)
	}

	return out
}
