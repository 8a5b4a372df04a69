package serialize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/goliatone/go-mdx/internal/lines"
	"github.com/goliatone/go-mdx/internal/mdast"
)

// statement is one import or export split out of an ESM block.
type statement struct {
	text      string
	kind      lines.Kind
	isDefault bool
	position  mdast.Position
}

// splitStatements cuts an ESM block at every unindented line that opens a
// new import or export, so blocks holding several statements can be
// regrouped.
func splitStatements(esm *mdast.ESM) []statement {
	var (
		out     []statement
		current []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.TrimRight(strings.Join(current, "\n"), " \t\r\n")
		kind := lines.Classify(current[0])
		out = append(out, statement{
			text:      text,
			kind:      kind,
			isDefault: kind == lines.KindExport && lines.IsDefaultExport(text),
			position:  esm.Position,
		})
		current = nil
	}
	for _, line := range strings.Split(esm.Value, "\n") {
		if len(current) > 0 && startsStatement(line) {
			flush()
		}
		current = append(current, line)
	}
	flush()
	return out
}

func startsStatement(line string) bool {
	if line == "" || unicode.IsSpace(rune(line[0])) {
		return false
	}
	// Dynamic import and import.meta are expressions, not declarations.
	if rest, ok := strings.CutPrefix(line, "import"); ok && (strings.HasPrefix(strings.TrimLeft(rest, " \t"), "(") || strings.HasPrefix(rest, ".")) {
		return false
	}
	kind := lines.Classify(line)
	return kind == lines.KindImport || kind == lines.KindExport
}

const identPattern = `[\p{L}\p{Nl}_$][\p{L}\p{Nl}\p{Mn}\p{Mc}\p{Nd}\p{Pc}_$]*`

var (
	importDefaultRe   = regexp.MustCompile(`^import\s+(` + identPattern + `)\s*(?:,|from\b)`)
	importNamespaceRe = regexp.MustCompile(`\*\s*as\s+(` + identPattern + `)`)
	importNamedRe     = regexp.MustCompile(`^import\s*(?:` + identPattern + `\s*,\s*)?\{([^}]*)\}`)
	exportDeclRe      = regexp.MustCompile(`^export\s+(?:async\s+)?(?:const|let|var|function\s*\*?|class)\s+(` + identPattern + `)`)
	exportListRe      = regexp.MustCompile(`^export\s*\{([^}]*)\}\s*(from\b)?`)
	exportDefaultRe   = regexp.MustCompile(`^export\s+default\s+`)
	aliasRe           = regexp.MustCompile(`^(?:type\s+)?(\S+)(?:\s+as\s+(\S+))?$`)
)

// importBindings returns the local names an import statement declares.
func importBindings(text string) []string {
	text = strings.TrimSpace(text)
	var names []string
	if m := importDefaultRe.FindStringSubmatch(text); m != nil {
		names = append(names, m[1])
	}
	if m := importNamespaceRe.FindStringSubmatch(text); m != nil {
		names = append(names, m[1])
	}
	if m := importNamedRe.FindStringSubmatch(text); m != nil {
		names = append(names, listBindings(m[1])...)
	}
	return names
}

// exportBindings returns the local names an export statement declares.
// Re-exports (`export { a } from "x"`) bind nothing locally.
func exportBindings(text string) []string {
	text = strings.TrimSpace(text)
	if m := exportDeclRe.FindStringSubmatch(text); m != nil {
		return []string{m[1]}
	}
	if m := exportListRe.FindStringSubmatch(text); m != nil && m[2] == "" {
		return listBindings(m[1])
	}
	return nil
}

// layoutExpression returns the expression of a default export with any
// trailing semicolon removed.
func layoutExpression(text string) string {
	text = strings.TrimSpace(text)
	loc := exportDefaultRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	expr := strings.TrimSpace(text[loc[1]:])
	return strings.TrimSpace(strings.TrimSuffix(expr, ";"))
}

func listBindings(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := aliasRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		name := m[1]
		if m[2] != "" {
			name = m[2]
		}
		if name != "default" {
			names = append(names, name)
		}
	}
	return names
}
