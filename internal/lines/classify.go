// Package lines classifies raw source lines before block scanning. Matching
// is purely lexical: statements are never parsed here, invalid ones are passed
// through and rejected by whatever consumes the generated code.
package lines

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the classification of a single source line.
type Kind int

const (
	KindBlank Kind = iota
	KindProse
	KindImport
	KindExport
)

// String renders the kind label used in dumps and logs.
func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindImport:
		return "import"
	case KindExport:
		return "export"
	default:
		return "prose"
	}
}

const (
	importKeyword  = "import"
	exportKeyword  = "export"
	defaultKeyword = "default"
)

// Classify returns the kind of line, which must not contain its trailing
// newline.
func Classify(line string) Kind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return KindBlank
	}
	switch {
	case hasKeyword(trimmed, importKeyword):
		return KindImport
	case hasKeyword(trimmed, exportKeyword):
		return KindExport
	default:
		return KindProse
	}
}

// IsImportOrExport reports whether text opens an import or export statement.
// Only the first line of text is inspected.
func IsImportOrExport(text string) bool {
	first, _, _ := strings.Cut(text, "\n")
	kind := Classify(strings.TrimSuffix(first, "\r"))
	return kind == KindImport || kind == KindExport
}

// IsDefaultExport reports whether text starts with `export default`.
func IsDefaultExport(text string) bool {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	if !hasKeyword(trimmed, exportKeyword) {
		return false
	}
	rest := strings.TrimLeftFunc(trimmed[len(exportKeyword):], unicode.IsSpace)
	return hasKeyword(rest, defaultKeyword)
}

// hasKeyword reports whether s starts with keyword followed by a word
// boundary (end of input or a rune that cannot continue an identifier).
func hasKeyword(s, keyword string) bool {
	if !strings.HasPrefix(s, keyword) {
		return false
	}
	rest := s[len(keyword):]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
