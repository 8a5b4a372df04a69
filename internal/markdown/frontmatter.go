package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v2"
)

// Frontmatter is the metadata block found at the top of a document.
type Frontmatter struct {
	Format string
	Raw    string
	Data   map[string]any
	Offset int
	End    int
}

// Delimited formats only: a leading `{` line is an expression, never JSON
// metadata.
var frontmatterFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("---yaml", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
	frontmatter.NewFormat("---toml", "---", toml.Unmarshal),
}

// ParseFrontMatter extracts a leading YAML or TOML block. It returns nil when
// the document has none. The returned body is source with the block replaced
// by spaces, so offsets into it still match the original document.
func ParseFrontMatter(source []byte) (*Frontmatter, []byte, error) {
	var data map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(source), &data, frontmatterFormats...)
	if err != nil {
		return nil, source, fmt.Errorf("parse frontmatter: %w", err)
	}
	if len(rest) == len(source) || !bytes.HasSuffix(source, rest) {
		return nil, source, nil
	}

	end := len(source) - len(rest)
	start := leadingBlank(source[:end])
	block := string(source[start:end])
	opener, _, _ := strings.Cut(block, "\n")

	fm := &Frontmatter{
		Format: frontmatterFormat(strings.TrimSpace(opener)),
		Raw:    frontmatterBody(block),
		Data:   data,
		Offset: start,
		End:    end,
	}
	if fm.Data == nil {
		fm.Data = map[string]any{}
	}

	body := make([]byte, len(source))
	copy(body, source)
	for i := start; i < end; i++ {
		if body[i] != '\n' && body[i] != '\r' {
			body[i] = ' '
		}
	}
	return fm, body, nil
}

func leadingBlank(source []byte) int {
	i := 0
	for i < len(source) {
		nl := bytes.IndexByte(source[i:], '\n')
		if nl < 0 || len(bytes.TrimSpace(source[i:i+nl])) != 0 {
			return i
		}
		i += nl + 1
	}
	return i
}

func frontmatterFormat(opener string) string {
	switch opener {
	case "+++", "---toml":
		return "toml"
	default:
		return "yaml"
	}
}

// frontmatterBody strips the delimiter lines from block.
func frontmatterBody(block string) string {
	lines := strings.Split(strings.TrimRight(block, "\r\n"), "\n")
	if len(lines) < 2 {
		return ""
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}
