package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdx/internal/diag"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

// Document is the block/inline tree of one source file.
type Document struct {
	Root gast.Node
	// Source is the text the tree's segments point into. It matches the input
	// byte for byte except inside the frontmatter block.
	Source      []byte
	Frontmatter *Frontmatter
}

// Parser turns hybrid documents into goldmark trees. It is immutable after
// construction and safe for concurrent use; per-document state lives in the
// parser.Context created by each Parse call.
type Parser struct {
	opts   interfaces.ParseOptions
	engine goldmark.Markdown
}

// NewParser builds the goldmark engine for opts.
func NewParser(opts interfaces.ParseOptions) *Parser {
	return &Parser{
		opts:   opts,
		engine: newGoldmarkEngine(opts),
	}
}

// Options returns the configuration the parser was built with.
func (p *Parser) Options() interfaces.ParseOptions {
	return p.opts
}

// Parse scans source and records syntax errors in collector. The returned
// tree is only meaningful when collector holds no fatal diagnostic.
func (p *Parser) Parse(source []byte, collector *diag.Collector) *Document {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		collector.Warnf(0, sourceFrontmatter, "%s; treating the leading block as Markdown", err.Error())
	}

	ctxOpts := []parser.ContextOption{}
	if p.opts.AutoHeadingID {
		ctxOpts = append(ctxOpts, parser.WithIDs(newSlugIDs()))
	}
	pc := parser.NewContext(ctxOpts...)
	withCollector(pc, collector)

	root := p.engine.Parser().Parse(text.NewReader(body), parser.WithContext(pc))
	return &Document{
		Root:        root,
		Source:      body,
		Frontmatter: fm,
	}
}

// newGoldmarkEngine builds a goldmark.Markdown with the hybrid extension and
// the extensions named in opts. Raw HTML blocks are left out of the block
// parsers: a line starting with `<` is markup or a paragraph, never an
// opaque HTML block.
func newGoldmarkEngine(opts interfaces.ParseOptions) goldmark.Markdown {
	exts := append([]goldmark.Extender{MDX}, collectExtensions(opts.Extensions)...)

	parserOptions := []parser.Option{
		parser.WithBlockParsers(blockParsers()...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	}
	if opts.AutoHeadingID {
		parserOptions = append(parserOptions, parser.WithAutoHeadingID())
	}

	return goldmark.New(
		goldmark.WithParser(parser.NewParser(parserOptions...)),
		goldmark.WithExtensions(exts...),
	)
}

func blockParsers() []util.PrioritizedValue {
	return []util.PrioritizedValue{
		util.Prioritized(parser.NewSetextHeadingParser(), 100),
		util.Prioritized(parser.NewThematicBreakParser(), 200),
		util.Prioritized(parser.NewListParser(), 300),
		util.Prioritized(parser.NewListItemParser(), 400),
		util.Prioritized(parser.NewCodeBlockParser(), 500),
		util.Prioritized(parser.NewATXHeadingParser(), 600),
		util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
		util.Prioritized(parser.NewBlockquoteParser(), 800),
		util.Prioritized(parser.NewParagraphParser(), 1000),
	}
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// KnownExtension reports whether name is a registered extension.
func KnownExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}
