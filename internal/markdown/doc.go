// Package markdown scans hybrid documents into goldmark trees. It extends
// goldmark with parsers for top-level import/export statements, markup tags
// and `{}` expression islands, strips a leading frontmatter block, and
// discovers source files on disk for batch builds.
package markdown
