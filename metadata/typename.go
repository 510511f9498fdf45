package metadata

import (
	"strings"
	"unicode"
)

// predeclared aliases spelled by their target type.
var canonicalIdents = map[string]string{
	"byte": "uint8",
	"rune": "int32",
}

// CanonicalTypeName rewrites a Go type name as printed by go/types or by
// reflect into one spelling, so both describe a parameter identically:
// "interface {}" and "interface{}" become "any", "byte" becomes "uint8",
// "rune" becomes "int32" and the padding reflect puts inside struct and
// interface braces is dropped. Package qualifiers are kept as given.
func CanonicalTypeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	s = strings.ReplaceAll(s, "interface {", "interface{")
	s = strings.ReplaceAll(s, "struct {", "struct{")
	s = strings.ReplaceAll(s, "{ ", "{")
	s = strings.ReplaceAll(s, " }", "}")
	s = strings.ReplaceAll(s, "interface{}", "any")

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); {
		if !isIdentStart(rune(s[i])) {
			b.WriteByte(s[i])
			i++

			continue
		}

		j := i
		for j < len(s) && isIdentPart(rune(s[j])) {
			j++
		}

		ident := s[i:j]
		// a qualified name such as pkg.byte is not the predeclared one
		if repl, ok := canonicalIdents[ident]; ok && (i == 0 || s[i-1] != '.') {
			ident = repl
		}

		b.WriteString(ident)
		i = j
	}

	return b.String()
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || r >= 0x80
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
