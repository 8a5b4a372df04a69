package markdown

import (
	"errors"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdx/internal/diag"
	"github.com/goliatone/go-mdx/internal/jsx"
)

// Parser priorities. Block parsers run before every goldmark parser sharing
// their trigger; the inline tag parser runs before autolinks and raw HTML.
const (
	priorityESM        = 50
	priorityJSXFlow    = 60
	priorityExpression = 70
	priorityInline     = 150
)

// Diagnostic sources attached to scanner errors.
const (
	sourceJSX         = "jsx"
	sourceExpression  = "expression"
	sourceFrontmatter = "frontmatter"
)

var collectorKey = parser.NewContextKey()

// withCollector stores the per-document diagnostic collector in pc.
func withCollector(pc parser.Context, collector *diag.Collector) {
	pc.Set(collectorKey, collector)
}

func collectorFrom(pc parser.Context) *diag.Collector {
	collector, _ := pc.Get(collectorKey).(*diag.Collector)
	return collector
}

// reportScanError records a fatal scanner error positioned through w.
func reportScanError(pc parser.Context, w *window, source string, err error) {
	collector := collectorFrom(pc)
	if collector == nil {
		return
	}
	var scanErr *jsx.Error
	if errors.As(err, &scanErr) {
		collector.Fatalf(w.sourceOffset(scanErr.Offset), source, "%s", scanErr.Message)
		return
	}
	collector.Fatalf(w.sourceOffset(0), source, "%s", err.Error())
}

type mdxExtension struct{}

// MDX registers the import/export, markup and expression parsers.
var MDX goldmark.Extender = &mdxExtension{}

func (e *mdxExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(NewESMParser(), priorityESM),
			util.Prioritized(NewJSXFlowParser(), priorityJSXFlow),
			util.Prioritized(NewFlowExpressionParser(), priorityExpression),
		),
		parser.WithInlineParsers(
			util.Prioritized(NewJSXTextParser(), priorityInline),
			util.Prioritized(NewTextExpressionParser(), priorityInline),
		),
	)
}
