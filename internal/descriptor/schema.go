package descriptor

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"constraint-meta/internal/common"
)

// File represents the root of a YAML constraint descriptor.
type File struct {
	// Version of the descriptor schema.
	Version string `yaml:"version,omitempty"`

	// DefaultPackage is prepended to bean classes given without a package.
	DefaultPackage string `yaml:"default_package,omitempty"`

	// Beans lists the types this descriptor constrains.
	Beans []Bean `yaml:"beans"`
}

// Bean describes the constraints of one type.
type Bean struct {
	// Class identifies the type (e.g., "store.Order" or full path).
	Class string `yaml:"class"`

	// IgnoreAnnotations drops the declarations made in Go source for this
	// type; only other sources describe it.
	IgnoreAnnotations bool `yaml:"ignore_annotations,omitempty"`

	// Constraints are type-level constraints.
	Constraints StringOrArray `yaml:"constraints,omitempty"`

	Fields  []Member    `yaml:"fields,omitempty"`
	Getters []Member    `yaml:"getters,omitempty"`
	Methods []MethodDef `yaml:"methods,omitempty"`
}

// Constrained holds the attributes any element can declare.
type Constrained struct {
	Constraints        StringOrArray        `yaml:"constraints,omitempty"`
	ElementConstraints StringOrArray        `yaml:"element_constraints,omitempty"`
	Valid              bool                 `yaml:"valid,omitempty"`
	ConvertGroups      []GroupConversionDef `yaml:"convert_group,omitempty"`
	Unwrap             string               `yaml:"unwrap,omitempty"`
}

// Member is a constrained field or getter.
type Member struct {
	// Name is the field name; for getters either the property or the method name.
	Name        string `yaml:"name"`
	Constrained `yaml:",inline"`
}

// MethodDef describes the constraints of one method.
type MethodDef struct {
	Name           string         `yaml:"name"`
	Parameters     []ParameterDef `yaml:"parameters,omitempty"`
	CrossParameter *Constrained   `yaml:"cross_parameter,omitempty"`
	ReturnValue    *Constrained   `yaml:"return_value,omitempty"`
}

// ParameterDef addresses a parameter by position or by name.
type ParameterDef struct {
	Index       *int   `yaml:"index,omitempty"`
	Name        string `yaml:"name,omitempty"`
	Constrained `yaml:",inline"`
}

// GroupConversionDef converts group From into group To when cascading.
type GroupConversionDef struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// StringOrArray is a list of strings that can be written as a single string.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

