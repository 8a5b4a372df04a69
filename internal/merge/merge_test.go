package merge

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-mdx/internal/diag"
	"github.com/goliatone/go-mdx/internal/markdown"
	"github.com/goliatone/go-mdx/internal/mdast"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

func TestMergeHeadingBecomesImplicitElement(t *testing.T) {
	root, _, err := mergeSource(t, "# Hello, world!", Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	want := &mdast.Root{Children: []mdast.Node{
		&mdast.Element{
			Name:     "h1",
			Explicit: false,
			Children: []mdast.Node{&mdast.Text{Value: "Hello, world!"}},
		},
	}}
	if diff := cmp.Diff(want, root, cmpopts.IgnoreTypes(mdast.Position{})); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeTrees(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want string
	}{
		{
			name: "inline markers nest markdown children",
			src:  "Hi <b>*there*</b>!",
			want: `p("Hi " b!(em("there")) "!")`,
		},
		{
			name: "self-closing flow element",
			src:  "<Foo bar={1+1} />",
			want: `Foo![bar={1+1}]`,
		},
		{
			name: "leaf flow element trims edges",
			src:  "<Note>  Some *text*  </Note>",
			want: `Note!("Some " em("text"))`,
		},
		{
			name: "container flow element",
			src:  "<Note>\n\n## Title\n\n</Note>",
			want: `Note!(h2("Title"))`,
		},
		{
			name: "expressions",
			src:  "{props.intro}\n\nSum {1 + 1}",
			want: `{props.intro} p("Sum " {1 + 1})`,
		},
		{
			name: "empty expressions are dropped",
			src:  "{/* note */}\n\n{ }",
			want: ``,
		},
		{
			name: "inline code",
			src:  "Use `a <b> {c}`",
			want: `p("Use " inlineCode("a <b> {c}"))`,
		},
		{
			name: "fenced code",
			src:  "```js title=x\nconst a = `b`\n```",
			want: "pre(code[className=language-js metastring=title=x](\"const a = `b`\\n\"))",
		},
		{
			name: "entities and escapes",
			src:  "a &amp; b \\* c &#65; &#x42;",
			want: `p("a & b * c A B")`,
		},
		{
			name: "soft breaks stay text",
			src:  "one\ntwo",
			want: `p("one\ntwo")`,
		},
		{
			name: "hard wraps",
			src:  "one\ntwo",
			opts: Options{HardWraps: true},
			want: `p("one" br "\ntwo")`,
		},
		{
			name: "hard break",
			src:  "one\\\ntwo",
			want: `p("one" br "\ntwo")`,
		},
		{
			name: "html comments are dropped",
			src:  "a <!-- hidden --> b",
			want: `p("a  b")`,
		},
		{
			name: "links and images",
			src:  "[site](https://example.com \"Home\") ![logo](/logo.png)",
			want: `p(a[href=https://example.com title=Home]("site") " " img[src=/logo.png alt=logo])`,
		},
		{
			name: "ordered list start",
			src:  "3. three\n4. four",
			want: `ol[start=3](li("three") li("four"))`,
		},
		{
			name: "table",
			src:  "| a | b |\n| :- | -: |\n| 1 | 2 |",
			want: `table(thead(tr(th[align=left]("a") th[align=right]("b"))) tbody(tr(td[align=left]("1") td[align=right]("2"))))`,
		},
		{
			name: "task list",
			src:  "- [x] done",
			want: `ul(li(input[type=checkbox checked=true disabled=true] " done"))`,
		},
		{
			name: "strikethrough and blockquote",
			src:  "> ~~old~~ new",
			want: `blockquote(p(del("old") " new"))`,
		},
		{
			name: "statements stay at the root",
			src:  "import A from 'a'\n\nexport default Layout\n\n# Hi",
			want: `esm(import) esm(export,default) h1("Hi")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _, err := mergeSource(t, tt.src, tt.opts)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if diff := cmp.Diff(tt.want, dump(root.Children)); diff != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeFrontmatterComesFirst(t *testing.T) {
	src := "---\ntitle: Hi\n---\n\n# Body\n"
	collector := diag.NewCollector([]byte(src))
	doc := markdown.NewParser(interfaces.ParseOptions{}).Parse([]byte(src), collector)

	root, _, err := Merge(doc.Root, doc.Source, Options{Frontmatter: doc.Frontmatter})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff(`frontmatter h1("Body")`, dump(root.Children)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	fm := root.Children[0].(*mdast.Frontmatter)
	if fm.Data["title"] != "Hi" || fm.Format != "yaml" {
		t.Fatalf("unexpected frontmatter %+v", fm)
	}
}

func TestMergeReportsUnbalancedInlineTags(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		offset  int
		message string
	}{
		{name: "stray closing tag", src: "a </b> c", offset: 2, message: "</b>"},
		{name: "unclosed opening tag", src: "a <b> c", offset: 2, message: "</b>"},
		{name: "crossed tags", src: "x <a><b>y</a></b>", offset: 5, message: "</b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := mergeSource(t, tt.src, Options{})
			var d *diag.Diagnostic
			if !errors.As(err, &d) {
				t.Fatalf("expected a diagnostic, got %v", err)
			}
			if !d.Fatal || d.Offset != tt.offset {
				t.Fatalf("expected fatal at %d, got %+v", tt.offset, d)
			}
			if !strings.Contains(d.Message, tt.message) {
				t.Fatalf("expected message to mention %q, got %q", tt.message, d.Message)
			}
		})
	}
}

func TestMergeRecordsPositions(t *testing.T) {
	root, _, err := mergeSource(t, "para\n\n<Foo />", Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	el := root.Children[1].(*mdast.Element)
	want := mdast.Position{Offset: 6, Line: 3, Column: 1}
	if diff := cmp.Diff(want, el.Position); diff != "" {
		t.Fatalf("position mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeRejectsNonDocument(t *testing.T) {
	if _, _, err := Merge(nil, nil, Options{}); !errors.Is(err, ErrNotDocument) {
		t.Fatalf("expected ErrNotDocument, got %v", err)
	}
}

func TestResolveText(t *testing.T) {
	tests := map[string]string{
		`\<not a tag\>`:  `<not a tag>`,
		`\\`:             `\`,
		`\a`:             `\a`,
		`&copy; &bogus;`: `© &bogus;`,
		`&#0;`:           "�",
		`&#x;`:           `&#x;`,
	}
	for in, want := range tests {
		if got := resolveText([]byte(in)); got != want {
			t.Fatalf("resolveText(%q) = %q, want %q", in, got, want)
		}
	}
}

func mergeSource(tb testing.TB, src string, opts Options) (*mdast.Root, []diag.Diagnostic, error) {
	tb.Helper()
	collector := diag.NewCollector([]byte(src))
	doc := markdown.NewParser(interfaces.ParseOptions{}).Parse([]byte(src), collector)
	if fatal := collector.Fatal(); fatal != nil {
		tb.Fatalf("unexpected parse error: %v", fatal)
	}
	return Merge(doc.Root, doc.Source, opts)
}

// dump renders nodes in a compact form: elements as name[attrs](children),
// explicit elements marked with "!", text quoted, expressions in braces.
func dump(nodes []mdast.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, dumpNode(n))
	}
	return strings.Join(parts, " ")
}

func dumpNode(n mdast.Node) string {
	switch v := n.(type) {
	case *mdast.Text:
		return fmt.Sprintf("%q", v.Value)
	case *mdast.Expression:
		return "{" + v.Value + "}"
	case *mdast.ESM:
		if v.Default {
			return "esm(" + v.Kind.String() + ",default)"
		}
		return "esm(" + v.Kind.String() + ")"
	case *mdast.Frontmatter:
		return "frontmatter"
	case *mdast.Element:
		var b strings.Builder
		b.WriteString(v.Name)
		if v.Explicit {
			b.WriteString("!")
		}
		if len(v.Attributes) > 0 {
			attrs := make([]string, 0, len(v.Attributes))
			for _, attr := range v.Attributes {
				switch attr.Kind {
				case mdast.AttrBoolean:
					attrs = append(attrs, attr.Name)
				case mdast.AttrString:
					attrs = append(attrs, attr.Name+"="+attr.Value)
				case mdast.AttrExpression:
					attrs = append(attrs, attr.Name+"={"+attr.Value+"}")
				case mdast.AttrSpread:
					attrs = append(attrs, "{..."+attr.Value+"}")
				case mdast.AttrData:
					attrs = append(attrs, fmt.Sprintf("%s=%v", attr.Name, attr.Data))
				}
			}
			b.WriteString("[" + strings.Join(attrs, " ") + "]")
		}
		if len(v.Children) > 0 {
			b.WriteString("(" + dump(v.Children) + ")")
		}
		return b.String()
	}
	return fmt.Sprintf("%T", n)
}
