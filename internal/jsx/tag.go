// Package jsx scans the lexical shape of embedded markup tags and expression
// islands. It never evaluates or validates the embedded code; it only finds
// where each construct starts and ends.
package jsx

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-mdx/internal/ident"
)

// Error is a fatal lexical error positioned at the opening delimiter of the
// construct that failed to close.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

func errorf(offset int, format string, args ...any) *Error {
	return &Error{Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// TagKind distinguishes opening, closing and self-closing tags.
type TagKind int

const (
	TagOpen TagKind = iota
	TagClose
	TagSelfClosing
)

// AttrKind is the syntactic form of an attribute.
type AttrKind int

const (
	// AttrBoolean is a bare name: `<input disabled>`.
	AttrBoolean AttrKind = iota
	// AttrString is a quoted value: `a="b"` or `a='b'`.
	AttrString
	// AttrExpression is a braced value: `a={b}`.
	AttrExpression
	// AttrSpread is `{...props}`.
	AttrSpread
)

// Attr is one scanned attribute. Value holds the unquoted string for
// AttrString and the raw source between the braces for AttrExpression; for
// AttrSpread it is the operand after `...`.
type Attr struct {
	Name   string
	Kind   AttrKind
	Value  string
	Offset int
}

// Tag is a scanned markup tag spanning src[Start:End]. Name is empty for
// fragments (`<>` and `</>`).
type Tag struct {
	Name       string
	Kind       TagKind
	Attributes []Attr
	Start      int
	End        int
}

// Fragment reports whether the tag is a fragment delimiter.
func (t Tag) Fragment() bool {
	return t.Name == ""
}

// ScanTag reads a tag starting at src[pos], which must be '<'. It returns
// ok=false with a nil error when the text does not follow the tag grammar and
// should be handled as ordinary prose (autolinks, comparisons, stray `<`). A
// non-nil error means the text committed to being a tag but was malformed or
// unterminated.
func ScanTag(src []byte, pos int) (tag Tag, ok bool, err error) {
	if pos+1 >= len(src) || src[pos] != '<' {
		return Tag{}, false, nil
	}

	s := &scanner{src: src, pos: pos + 1}
	tag.Start = pos

	switch {
	case s.peek() == '>':
		s.pos++
		tag.Kind = TagOpen
		tag.End = s.pos
		return tag, true, nil
	case s.peek() == '/':
		s.pos++
		s.skipSpace()
		if s.peek() == '>' {
			s.pos++
			tag.Kind = TagClose
			tag.End = s.pos
			return tag, true, nil
		}
		name, nameOK := s.name()
		if !nameOK {
			return Tag{}, false, nil
		}
		s.skipSpace()
		if s.eof() {
			return Tag{}, false, errorf(pos, "unexpected end of input in closing tag `</%s`, expected `>`", name)
		}
		if s.peek() != '>' {
			return Tag{}, false, nil
		}
		s.pos++
		tag.Name = name
		tag.Kind = TagClose
		tag.End = s.pos
		return tag, true, nil
	}

	name, nameOK := s.name()
	if !nameOK {
		return Tag{}, false, nil
	}
	tag.Name = name

	for {
		s.skipSpace()
		if s.eof() {
			return Tag{}, false, errorf(pos, "unexpected end of input in tag `<%s`, expected `>`", name)
		}
		c := s.peek()
		switch {
		case c == '>':
			s.pos++
			tag.Kind = TagOpen
			tag.End = s.pos
			return tag, true, nil
		case c == '/':
			s.pos++
			s.skipSpace()
			if s.eof() {
				return Tag{}, false, errorf(pos, "unexpected end of input in tag `<%s`, expected `>`", name)
			}
			if s.peek() != '>' {
				return Tag{}, false, nil
			}
			s.pos++
			tag.Kind = TagSelfClosing
			tag.End = s.pos
			return tag, true, nil
		case c == '{':
			attr, err := s.spread()
			if err != nil {
				return Tag{}, false, err
			}
			tag.Attributes = append(tag.Attributes, attr)
		default:
			start := s.pos
			attrName, attrOK := s.attrName()
			if !attrOK {
				return Tag{}, false, nil
			}
			attr, err := s.attrValue(attrName, start)
			if err != nil {
				return Tag{}, false, err
			}
			tag.Attributes = append(tag.Attributes, attr)
		}
	}
}

type scanner struct {
	src []byte
	pos int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekRune() rune {
	if s.eof() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRune(s.src[s.pos:])
	return r
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

// name reads an element name: an identifier (dashes allowed) optionally
// followed by `.member` parts or a single `:local` part.
func (s *scanner) name() (string, bool) {
	start := s.pos
	if !unicode.IsLetter(s.peekRune()) {
		return "", false
	}
	s.identifier(true)
	switch s.peek() {
	case '.':
		for s.peek() == '.' {
			s.pos++
			if !ident.IsIDStart(s.peekRune()) {
				return "", false
			}
			s.identifier(false)
		}
	case ':':
		s.pos++
		if !ident.IsIDStart(s.peekRune()) {
			return "", false
		}
		s.identifier(true)
	}
	return string(s.src[start:s.pos]), true
}

// attrName reads an attribute name, allowing a single `:` namespace part.
func (s *scanner) attrName() (string, bool) {
	start := s.pos
	if !ident.IsIDStart(s.peekRune()) {
		return "", false
	}
	s.identifier(true)
	if s.peek() == ':' {
		s.pos++
		if !ident.IsIDStart(s.peekRune()) {
			return "", false
		}
		s.identifier(true)
	}
	return string(s.src[start:s.pos]), true
}

func (s *scanner) identifier(dashes bool) {
	for !s.eof() {
		r, size := utf8.DecodeRune(s.src[s.pos:])
		if ident.IsIDContinue(r) || (dashes && r == '-') {
			s.pos += size
			continue
		}
		return
	}
}

func (s *scanner) attrValue(name string, start int) (Attr, error) {
	mark := s.pos
	s.skipSpace()
	if s.peek() != '=' {
		s.pos = mark
		return Attr{Name: name, Kind: AttrBoolean, Offset: start}, nil
	}
	s.pos++
	s.skipSpace()
	if s.eof() {
		return Attr{}, errorf(start, "unexpected end of input after `%s=`, expected an attribute value", name)
	}

	switch c := s.peek(); c {
	case '"', '\'':
		open := s.pos
		for i := open + 1; i < len(s.src); i++ {
			if s.src[i] == c {
				s.pos = i + 1
				return Attr{Name: name, Kind: AttrString, Value: string(s.src[open+1 : i]), Offset: start}, nil
			}
		}
		return Attr{}, errorf(open, "unterminated attribute value, expected a closing `%c`", c)
	case '{':
		open := s.pos
		end, err := ScanExpression(s.src, open)
		if err != nil {
			return Attr{}, err
		}
		s.pos = end
		value := string(s.src[open+1 : end-1])
		if IsEmptyExpression(value) {
			return Attr{}, errorf(open, "attribute `%s` has an empty expression", name)
		}
		return Attr{Name: name, Kind: AttrExpression, Value: value, Offset: start}, nil
	default:
		return Attr{}, errorf(s.pos, "unexpected character in value of attribute `%s`, expected a quote or `{`", name)
	}
}

func (s *scanner) spread() (Attr, error) {
	open := s.pos
	end, err := ScanExpression(s.src, open)
	if err != nil {
		return Attr{}, err
	}
	inner := string(s.src[open+1 : end-1])
	trimmed := trimSpace(inner)
	if len(trimmed) < 4 || trimmed[:3] != "..." {
		return Attr{}, errorf(open, "unexpected expression in tag, expected a `{...spread}` attribute")
	}
	s.pos = end
	return Attr{Kind: AttrSpread, Value: trimSpace(trimmed[3:]), Offset: open}, nil
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}
