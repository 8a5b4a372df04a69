package markdown

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	gast "github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-mdx/internal/diag"
	"github.com/goliatone/go-mdx/internal/jsx"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

func TestParseCapturesImportAndExportStatements(t *testing.T) {
	doc, _ := parseSource(t, "import Foo from './foo'\n\nexport default props => <article {...props} />\n")

	got := esmNodes(doc.Root)
	want := []ESM{
		{Value: "import Foo from './foo'", Offset: 0},
		{Value: "export default props => <article {...props} />", Default: true, Offset: 25},
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(compareESM)); diff != "" {
		t.Fatalf("esm nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSplitsExportsOnBlankLines(t *testing.T) {
	doc, _ := parseSource(t, "export const a = {\n  b: 1,\n}\n\nexport const c = 2\n")

	got := esmNodes(doc.Root)
	if len(got) != 2 {
		t.Fatalf("expected 2 esm nodes, got %d", len(got))
	}
	if got[0].Value != "export const a = {\n  b: 1,\n}" {
		t.Fatalf("unexpected first statement %q", got[0].Value)
	}
	if got[1].Value != "export const c = 2" {
		t.Fatalf("unexpected second statement %q", got[1].Value)
	}
}

func TestParseKeepsStatementsOutsideRootAsProse(t *testing.T) {
	tests := map[string]string{
		"paragraph continuation": "Some text\nimport x from 'y'\n",
		"blockquote":             "> import x from 'y'\n",
		"keyword prefix":         "exporting goods is fun\n",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			doc, _ := parseSource(t, src)
			if got := esmNodes(doc.Root); len(got) != 0 {
				t.Fatalf("expected no esm nodes, got %+v", got)
			}
		})
	}
}

func TestParseSelfClosingFlowElement(t *testing.T) {
	doc, _ := parseSource(t, "<Foo bar={1+1} />\n")

	node, ok := doc.Root.FirstChild().(*JSXFlow)
	if !ok {
		t.Fatalf("expected JSXFlow, got %T", doc.Root.FirstChild())
	}
	if node.Name != "Foo" || !node.SelfClosing || node.Container {
		t.Fatalf("unexpected flow element %+v", node)
	}
	want := []Attribute{{Name: "bar", Kind: jsx.AttrExpression, Value: "1+1", Offset: 5}}
	if diff := cmp.Diff(want, node.Attrs); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLeafFlowElementHoldsInlineContent(t *testing.T) {
	doc, _ := parseSource(t, "<Foo>Hello *world*</Foo>\n")

	node, ok := doc.Root.FirstChild().(*JSXFlow)
	if !ok {
		t.Fatalf("expected JSXFlow, got %T", doc.Root.FirstChild())
	}
	if node.Container {
		t.Fatalf("expected leaf element")
	}
	want := []string{"Text", "Emphasis"}
	if diff := cmp.Diff(want, childKinds(node)); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestParseContainerFlowElementHoldsBlocks(t *testing.T) {
	doc, collector := parseSource(t, "<Note>\n\n# Title\n\n- one\n- two\n\n</Note>\n\nAfter\n")

	if fatal := collector.Fatal(); fatal != nil {
		t.Fatalf("unexpected fatal diagnostic: %v", fatal)
	}
	want := []string{"JSXFlow", "Paragraph"}
	if diff := cmp.Diff(want, childKinds(doc.Root)); diff != "" {
		t.Fatalf("root children mismatch (-want +got):\n%s", diff)
	}
	node := doc.Root.FirstChild().(*JSXFlow)
	if !node.Container {
		t.Fatalf("expected container element")
	}
	if diff := cmp.Diff([]string{"Heading", "List"}, childKinds(node)); diff != "" {
		t.Fatalf("container children mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNestedContainersWithSameName(t *testing.T) {
	src := "<Box>\n\n<Box>\n\ninner\n\n</Box>\n\nouter\n\n</Box>\n"
	doc, collector := parseSource(t, src)

	if fatal := collector.Fatal(); fatal != nil {
		t.Fatalf("unexpected fatal diagnostic: %v", fatal)
	}
	outer, ok := doc.Root.FirstChild().(*JSXFlow)
	if !ok || doc.Root.ChildCount() != 1 {
		t.Fatalf("expected a single outer container, got %v", childKinds(doc.Root))
	}
	if diff := cmp.Diff([]string{"JSXFlow", "Paragraph"}, childKinds(outer)); diff != "" {
		t.Fatalf("outer children mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInlineTagMarkers(t *testing.T) {
	doc, _ := parseSource(t, "Hi <b>there</b>!\n")

	para := doc.Root.FirstChild()
	want := []string{"Text", "JSXTextTag", "Text", "JSXTextTag", "Text"}
	if diff := cmp.Diff(want, childKinds(para)); diff != "" {
		t.Fatalf("inline children mismatch (-want +got):\n%s", diff)
	}

	open := para.FirstChild().NextSibling().(*JSXTextTag)
	if open.Name != "b" || open.TagKind != jsx.TagOpen || open.Offset != 3 {
		t.Fatalf("unexpected opening marker %+v", open)
	}
	closing := open.NextSibling().NextSibling().(*JSXTextTag)
	if closing.Name != "b" || closing.TagKind != jsx.TagClose || closing.Offset != 11 {
		t.Fatalf("unexpected closing marker %+v", closing)
	}
}

func TestParseInlineTagAttributes(t *testing.T) {
	doc, _ := parseSource(t, "Hi <Badge tone=\"info\" {...rest} />\n")

	var tag gast.Node = doc.Root.FirstChild().FirstChild().NextSibling()
	badge, ok := tag.(*JSXTextTag)
	if !ok {
		t.Fatalf("expected JSXTextTag, got %T", tag)
	}
	want := []Attribute{
		{Name: "tone", Kind: jsx.AttrString, Value: "info", Offset: 10},
		{Kind: jsx.AttrSpread, Value: "rest", Offset: 22},
	}
	if diff := cmp.Diff(want, badge.Attrs); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}

	// goldmark's own attribute storage stays independent of the tag's.
	tag.SetAttributeString("id", []byte("badge"))
	if len(tag.Attributes()) != 1 || len(badge.Attrs) != 2 {
		t.Fatalf("unexpected attributes %v / %+v", tag.Attributes(), badge.Attrs)
	}
}

func TestParseTextExpression(t *testing.T) {
	doc, _ := parseSource(t, "Sum: {1 + 1} done\n")

	para := doc.Root.FirstChild()
	if diff := cmp.Diff([]string{"Text", "TextExpression", "Text"}, childKinds(para)); diff != "" {
		t.Fatalf("inline children mismatch (-want +got):\n%s", diff)
	}
	expr := para.FirstChild().NextSibling().(*TextExpression)
	if expr.Value != "1 + 1" || expr.Offset != 5 {
		t.Fatalf("unexpected expression %+v", expr)
	}
}

func TestParseEscapedDelimitersStayText(t *testing.T) {
	doc, collector := parseSource(t, "\\{not an expression} and \\<b>\n")

	if fatal := collector.Fatal(); fatal != nil {
		t.Fatalf("unexpected fatal diagnostic: %v", fatal)
	}
	for _, kind := range childKinds(doc.Root.FirstChild()) {
		if kind == "TextExpression" || kind == "JSXTextTag" {
			t.Fatalf("escaped delimiter produced %s", kind)
		}
	}
}

func TestParseFlowExpression(t *testing.T) {
	doc, _ := parseSource(t, "{\n  items.map(i => i)\n}\n\nAfter\n")

	if diff := cmp.Diff([]string{"FlowExpression", "Paragraph"}, childKinds(doc.Root)); diff != "" {
		t.Fatalf("root children mismatch (-want +got):\n%s", diff)
	}
	expr := doc.Root.FirstChild().(*FlowExpression)
	if expr.Value != "\n  items.map(i => i)\n" {
		t.Fatalf("unexpected expression value %q", expr.Value)
	}
}

func TestParseReportsFatalOffsets(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		offset  int
		message string
	}{
		{name: "unbalanced text expression", src: "Hello {world\n", offset: 6, message: "}"},
		{name: "unclosed container", src: "<Note>\n\ntext\n", offset: 0, message: "</Note>"},
		{name: "unterminated attribute", src: "<Foo bar=\"baz />\n", offset: 9, message: "\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, collector := parseSource(t, tt.src)
			fatal := collector.Fatal()
			if fatal == nil {
				t.Fatalf("expected fatal diagnostic")
			}
			if fatal.Offset != tt.offset {
				t.Fatalf("expected offset %d, got %d (%s)", tt.offset, fatal.Offset, fatal.Message)
			}
			if !strings.Contains(fatal.Message, tt.message) {
				t.Fatalf("expected message to mention %q, got %q", tt.message, fatal.Message)
			}
		})
	}
}

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/frontmatter.mdx")

	doc, collector := parseSource(t, string(data))
	if len(collector.Warnings()) != 0 {
		t.Fatalf("unexpected warnings: %+v", collector.Warnings())
	}
	if doc.Frontmatter == nil {
		t.Fatalf("expected frontmatter")
	}
	if doc.Frontmatter.Format != "yaml" {
		t.Fatalf("expected yaml format, got %q", doc.Frontmatter.Format)
	}
	if doc.Frontmatter.Data["title"] != "Sample Document" {
		t.Fatalf("unexpected frontmatter data %#v", doc.Frontmatter.Data)
	}
	if doc.Frontmatter.Raw != "title: Sample Document\ncount: 3" {
		t.Fatalf("unexpected raw frontmatter %q", doc.Frontmatter.Raw)
	}
	if len(doc.Source) != len(data) {
		t.Fatalf("expected blanked source to keep offsets")
	}
	if diff := cmp.Diff([]string{"Heading"}, childKinds(doc.Root)); diff != "" {
		t.Fatalf("root children mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFrontMatterTOML(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("+++\ntitle = \"Hi\"\n+++\nbody\n"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm == nil || fm.Format != "toml" || fm.Data["title"] != "Hi" {
		t.Fatalf("unexpected frontmatter %+v", fm)
	}
	if !strings.HasSuffix(string(body), "body\n") || strings.Contains(string(body), "title") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestParseWithoutFrontMatterKeepsSource(t *testing.T) {
	src := []byte("# Title\n\n---\n")
	fm, body, err := ParseFrontMatter(src)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm != nil {
		t.Fatalf("expected no frontmatter, got %+v", fm)
	}
	if string(body) != string(src) {
		t.Fatalf("expected body to equal source")
	}
}

func TestParseAutoHeadingIDs(t *testing.T) {
	parser := NewParser(interfaces.ParseOptions{AutoHeadingID: true})
	collector := diag.NewCollector([]byte("# intro\n\n# intro\n"))
	doc := parser.Parse([]byte("# intro\n\n# intro\n"), collector)

	var ids []string
	for n := doc.Root.FirstChild(); n != nil; n = n.NextSibling() {
		id, _ := n.AttributeString("id")
		raw, _ := id.([]byte)
		ids = append(ids, string(raw))
	}
	if diff := cmp.Diff([]string{"intro", "intro-1"}, ids); diff != "" {
		t.Fatalf("heading ids mismatch (-want +got):\n%s", diff)
	}
}

func TestKnownExtension(t *testing.T) {
	if !KnownExtension(" GFM ") {
		t.Fatalf("expected gfm to be known")
	}
	if KnownExtension("mermaid") {
		t.Fatalf("expected mermaid to be unknown")
	}
}

func parseSource(tb testing.TB, src string) (*Document, *diag.Collector) {
	tb.Helper()
	collector := diag.NewCollector([]byte(src))
	doc := NewParser(interfaces.ParseOptions{}).Parse([]byte(src), collector)
	if doc == nil || doc.Root == nil {
		tb.Fatalf("expected a parsed document")
	}
	return doc, collector
}

func esmNodes(root gast.Node) []ESM {
	var out []ESM
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if esm, ok := n.(*ESM); ok {
			out = append(out, ESM{Value: esm.Value, Default: esm.Default, Offset: esm.Offset})
		}
	}
	return out
}

func compareESM(a, b ESM) bool {
	return a.Value == b.Value && a.Default == b.Default && a.Offset == b.Offset
}

func childKinds(n gast.Node) []string {
	var kinds []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		kinds = append(kinds, c.Kind().String())
	}
	return kinds
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
