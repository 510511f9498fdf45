package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"constraint-meta/internal/aggregate"
	"constraint-meta/metadata"
)

// typeReport is the YAML form of aggregate.TypeMetadata.
type typeReport struct {
	Type     string          `yaml:"type"`
	Elements []elementReport `yaml:"elements"`
}

type elementReport struct {
	Kind               string            `yaml:"kind"`
	Identity           string            `yaml:"identity"`
	Hash               string            `yaml:"hash"`
	Source             string            `yaml:"source"`
	Constraints        []string          `yaml:"constraints,omitempty"`
	ElementConstraints []string          `yaml:"element_constraints,omitempty"`
	Cascading          bool              `yaml:"cascading,omitempty"`
	GroupConversions   map[string]string `yaml:"group_conversions,omitempty"`
	Unwrap             string            `yaml:"unwrap,omitempty"`
}

func newElementReport(e metadata.ConstrainedElement) elementReport {
	r := elementReport{
		Kind:               e.Kind().String(),
		Identity:           e.Identity().String(),
		Hash:               e.Key().Hash().String(),
		Source:             e.Source().String(),
		Constraints:        constraintStrings(e.Constraints()),
		ElementConstraints: constraintStrings(e.TypeArgumentConstraints()),
		Cascading:          e.IsCascading(),
	}

	if !e.GroupConversions().IsEmpty() {
		r.GroupConversions = map[string]string{}
		for from, to := range e.GroupConversions().All() {
			r.GroupConversions[string(from)] = string(to)
		}
	}

	if e.UnwrapPolicy() != metadata.UnwrapDefault {
		r.Unwrap = e.UnwrapPolicy().String()
	}

	return r
}

func constraintStrings(set metadata.ConstraintSet) []string {
	var out []string

	for c := range set.All() {
		if s, ok := c.(fmt.Stringer); ok {
			out = append(out, s.String())
		} else {
			out = append(out, c.ConstraintKey())
		}
	}

	return out
}

func writeYAML(w io.Writer, types []aggregate.TypeMetadata) error {
	reports := make([]typeReport, 0, len(types))

	for _, tm := range types {
		r := typeReport{Type: tm.Type}
		for _, e := range tm.Elements {
			r.Elements = append(r.Elements, newElementReport(e))
		}

		reports = append(reports, r)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return enc.Close()
}

func writeText(w io.Writer, types []aggregate.TypeMetadata) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for i, tm := range types {
		if i > 0 {
			fmt.Fprintln(tw)
		}

		fmt.Fprintln(tw, tm.Type)

		for _, e := range tm.Elements {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", e.Kind(), memberOf(e.Identity()), e.Source(), describe(e))
		}
	}

	return tw.Flush()
}

// memberOf renders an identity without its declaring type.
func memberOf(id metadata.Identity) string {
	s := strings.TrimPrefix(id.String(), id.Type)
	s = strings.TrimPrefix(s, ".")

	if s == "" {
		return "-"
	}

	return s
}

func describe(e metadata.ConstrainedElement) string {
	parts := []string{e.Constraints().String()}

	if !e.TypeArgumentConstraints().IsEmpty() {
		parts = append(parts, "elements "+e.TypeArgumentConstraints().String())
	}

	if e.IsCascading() {
		parts = append(parts, "valid")
	}

	if !e.GroupConversions().IsEmpty() {
		parts = append(parts, "convert "+e.GroupConversions().String())
	}

	if e.UnwrapPolicy() != metadata.UnwrapDefault {
		parts = append(parts, "unwrap="+e.UnwrapPolicy().String())
	}

	return strings.Join(parts, " ")
}
