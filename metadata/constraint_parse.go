package metadata

import (
	"errors"
	"fmt"
	"strings"
)

// groupsParam is the attribute that lists a constraint's groups.
const groupsParam = "groups"

// ParseConstraint parses the textual constraint syntax shared by struct
// tags and descriptor files:
//
//	NotNull
//	Size(min=1,max=64)
//	Pattern(regexp='^[a-z,]+$')
//	Email(groups=Basic|Full)
//
// Values may be wrapped in single or double quotes to contain separators.
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Constraint{}, errors.New("empty constraint")
	}

	open := strings.IndexByte(s, '(')
	if open < 0 {
		if !isIdentifier(s) {
			return Constraint{}, fmt.Errorf("invalid constraint name %q", s)
		}

		return NewConstraint(s, nil), nil
	}

	name := strings.TrimSpace(s[:open])
	if !isIdentifier(name) {
		return Constraint{}, fmt.Errorf("invalid constraint name %q", name)
	}

	if !strings.HasSuffix(s, ")") {
		return Constraint{}, fmt.Errorf("constraint %q: missing closing parenthesis", s)
	}

	params := map[string]string{}

	var groups []Group

	for _, item := range SplitList(s[open+1:len(s)-1], ',') {
		k, v, ok := strings.Cut(item, "=")
		if !ok {
			return Constraint{}, fmt.Errorf("constraint %q: attribute %q is not key=value", name, item)
		}

		k = strings.TrimSpace(k)
		v = unquote(strings.TrimSpace(v))

		if k == "" {
			return Constraint{}, fmt.Errorf("constraint %q: empty attribute name", name)
		}

		if k == groupsParam {
			for _, g := range strings.Split(v, "|") {
				if g = strings.TrimSpace(g); g != "" {
					groups = append(groups, Group(g))
				}
			}

			continue
		}

		if _, dup := params[k]; dup {
			return Constraint{}, fmt.Errorf("constraint %q: duplicate attribute %q", name, k)
		}

		params[k] = v
	}

	return NewConstraint(name, params, groups...), nil
}

// SplitList splits s at sep, ignoring separators inside quotes or
// parentheses. Items are trimmed and empty items dropped.
func SplitList(s string, sep rune) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
		depth int
	)

	flush := func() {
		if item := strings.TrimSpace(cur.String()); item != "" {
			out = append(out, item)
		}

		cur.Reset()
	}

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == sep && depth == 0:
			flush()
			continue
		}

		cur.WriteRune(r)
	}

	flush()

	return out
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '\'' && v[len(v)-1] == '\'') || (v[0] == '"' && v[len(v)-1] == '"') {
			return v[1 : len(v)-1]
		}
	}

	return v
}

func quoteIfNeeded(v string) string {
	if v == "" || strings.ContainsAny(v, ",;()=|'\" ") {
		if strings.ContainsRune(v, '\'') {
			return `"` + v + `"`
		}

		return "'" + v + "'"
	}

	return v
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_' || r == '.':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
