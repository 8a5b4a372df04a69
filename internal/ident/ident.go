// Package ident turns arbitrary text into identifiers that are valid in the
// generated JavaScript.
package ident

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
)

const (
	zeroWidthNonJoiner = '\u200c'
	zeroWidthJoiner    = '\u200d'
)

// ToValidIdentifier replaces every rune that cannot start (first position) or
// continue (other positions) an identifier with `_`. Empty input yields `_`.
func ToValidIdentifier(s string) string {
	if s == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(s))
	first := true
	for _, r := range s {
		valid := false
		if first {
			valid = IsIDStart(r)
		} else {
			valid = IsIDContinue(r)
		}
		if valid {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		first = false
	}
	return b.String()
}

// IsIDStart reports whether r may start an identifier.
func IsIDStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

// IsIDContinue reports whether r may continue an identifier.
func IsIDContinue(r rune) bool {
	if IsIDStart(r) {
		return true
	}
	if r == zeroWidthNonJoiner || r == zeroWidthJoiner {
		return true
	}
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

// IsValid reports whether s is already a valid identifier.
func IsValid(s string) bool {
	return s != "" && ToValidIdentifier(s) == s
}

var reserved = map[string]struct{}{
	"await": {}, "break": {}, "case": {}, "catch": {}, "class": {}, "const": {},
	"continue": {}, "debugger": {}, "default": {}, "delete": {}, "do": {},
	"else": {}, "enum": {}, "export": {}, "extends": {}, "false": {},
	"finally": {}, "for": {}, "function": {}, "if": {}, "implements": {},
	"import": {}, "in": {}, "instanceof": {}, "interface": {}, "let": {},
	"new": {}, "null": {}, "package": {}, "private": {}, "protected": {},
	"public": {}, "return": {}, "static": {}, "super": {}, "switch": {},
	"this": {}, "throw": {}, "true": {}, "try": {}, "typeof": {}, "var": {},
	"void": {}, "while": {}, "with": {}, "yield": {},
}

// IsReserved reports whether name is a reserved word of the output language.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// ComponentName derives a PascalCase identifier from a document path, e.g.
// "docs/getting-started.mdx" becomes "GettingStarted".
func ComponentName(path string) string {
	base := filepath.Base(path)
	for ext := filepath.Ext(base); ext != "" && ext != base; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}

	normalized, err := slug.Normalize(base)
	if err != nil || normalized == "" {
		normalized = base
	}

	parts := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	name := ToValidIdentifier(b.String())
	if name == "_" {
		return "MDXContent"
	}
	return name
}
