package mdx_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-mdx"
	"github.com/goliatone/go-mdx/internal/mdast"
)

var ignorePositions = cmpopts.IgnoreFields(mdast.Element{}, "Position")

func compile(t *testing.T, src string, opts ...mdx.Option) *mdx.Result {
	t.Helper()
	result, err := mdx.CompileString(context.Background(), src, opts...)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return result
}

func esmNodes(tree *mdx.Tree) []*mdast.ESM {
	var out []*mdast.ESM
	for _, child := range tree.Children {
		if esm, ok := child.(*mdast.ESM); ok {
			out = append(out, esm)
		}
	}
	return out
}

func TestHeadingBecomesImplicitElement(t *testing.T) {
	result := compile(t, "# Hello, world!")

	want := []mdast.Node{&mdast.Element{
		Name:     "h1",
		Children: []mdast.Node{&mdast.Text{Value: "Hello, world!"}},
	}}
	opts := cmp.Options{ignorePositions, cmpopts.EquateEmpty(), cmpopts.IgnoreFields(mdast.Text{}, "Position")}
	if diff := cmp.Diff(want, result.Tree.Children, opts); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestImportAndDefaultExport(t *testing.T) {
	result := compile(t, "import Foo from './foo'\n\nexport default props => <article {...props} />")

	esm := esmNodes(result.Tree)
	if len(esm) != 2 {
		t.Fatalf("expected two statements, got %+v", esm)
	}
	if esm[0].Kind != mdast.ESMImport || esm[0].Value != "import Foo from './foo'" {
		t.Fatalf("unexpected import %+v", esm[0])
	}
	if esm[1].Kind != mdast.ESMExport || !esm[1].Default {
		t.Fatalf("expected a default export, got %+v", esm[1])
	}
	if !strings.Contains(result.Code, "const MDXLayout = props => <article {...props} />;") {
		t.Fatalf("default export should become the layout:\n%s", result.Code)
	}
}

func TestSelfClosingElementWithExpressionAttribute(t *testing.T) {
	result := compile(t, "<Foo bar={1+1} />")

	want := []mdast.Node{&mdast.Element{
		Name:        "Foo",
		SelfClosing: true,
		Explicit:    true,
		Attributes:  []mdast.Attribute{{Name: "bar", Kind: mdast.AttrExpression, Value: "1+1"}},
	}}
	opts := cmp.Options{ignorePositions, cmpopts.EquateEmpty(), cmpopts.IgnoreFields(mdast.Attribute{}, "Position")}
	if diff := cmp.Diff(want, result.Tree.Children, opts); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(result.Code, "bar: 1+1") {
		t.Fatalf("expression attribute should be spliced verbatim:\n%s", result.Code)
	}
}

func TestInlineCodeWithBacktickStaysInsideTemplate(t *testing.T) {
	result := compile(t, "Use `` a`b `` here")

	if !strings.Contains(result.Code, "`a\\`b`") {
		t.Fatalf("expected an escaped backtick in the template literal:\n%s", result.Code)
	}
}

func TestSiblingExportsStayDistinct(t *testing.T) {
	result := compile(t, "export const a = 1\n\nexport const b = 2\n")

	esm := esmNodes(result.Tree)
	if len(esm) != 2 || esm[0].Value != "export const a = 1" || esm[1].Value != "export const b = 2" {
		t.Fatalf("expected two export nodes, got %+v", esm)
	}
	if !strings.Contains(result.Code, "const layoutProps = {a, b};") {
		t.Fatalf("both exports should reach layoutProps:\n%s", result.Code)
	}
}

func TestCompileOptions(t *testing.T) {
	result := compile(t, "<Chart />",
		mdx.WithComponents("Chart"),
		mdx.WithPragma(false),
		mdx.WithProviderImportSource("@mdx-js/react"),
		mdx.WithDevelopment(true),
		mdx.WithFilePath("docs/a.mdx"),
	)
	for _, fragment := range []string{
		`import { mdx } from "@mdx-js/react";`,
		`fileName: "docs/a.mdx"`,
		`mdx(components.Chart, {`,
	} {
		if !strings.Contains(result.Code, fragment) {
			t.Fatalf("expected %q in:\n%s", fragment, result.Code)
		}
	}
	for _, fragment := range []string{"@jsx", "makeShortcode"} {
		if strings.Contains(result.Code, fragment) {
			t.Fatalf("unexpected %q in:\n%s", fragment, result.Code)
		}
	}
}

func TestCompileSyntaxError(t *testing.T) {
	result, err := mdx.CompileString(context.Background(), "<Note>\n\nunclosed\n")
	if result != nil {
		t.Fatalf("expected no result on a syntax error")
	}
	d, ok := mdx.SyntaxError(err)
	if !ok || !mdx.IsSyntaxError(err) {
		t.Fatalf("expected a syntax error, got %v", err)
	}
	if d.Line != 1 || d.Column != 1 {
		t.Fatalf("expected the error at the opener, got %d:%d", d.Line, d.Column)
	}
}

func TestModuleCompilesThroughCommandHandler(t *testing.T) {
	dir := t.TempDir()
	cfg := mdx.DefaultConfig()
	cfg.Markdown.ContentDir = dir

	m, err := mdx.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out := dir + "/a.js"
	err = m.CompileFile(context.Background(), mdx.CompileFileCommand{
		Path:    dir + "/a.mdx",
		Source:  []byte("# A"),
		OutPath: out,
	})
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}

	docs, err := m.Documents()
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	doc, err := docs.Load(context.Background(), "a.js")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.Contains(string(doc.Source), "export default function MDXContent") {
		t.Fatalf("unexpected module:\n%s", doc.Source)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := mdx.ParseConfig([]byte(`{"compiler": {"components": ["Chart"]}}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if len(cfg.Compiler.Components) != 1 || !cfg.Compiler.Pragma {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
