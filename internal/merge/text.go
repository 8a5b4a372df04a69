package merge

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// resolveText applies backslash escapes, entity and numeric character
// references in one pass, the way goldmark's HTML writer does for text.
func resolveText(v []byte) string {
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c == '\\' && i+1 < len(v) && util.IsPunct(v[i+1]):
			b.WriteByte(v[i+1])
			i++
		case c == 0:
			b.WriteRune(utf8.RuneError)
		case c == '&':
			if value, n, ok := characterReference(v[i:]); ok {
				b.WriteString(value)
				i += n - 1
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// characterReference decodes the reference at the start of v, which begins
// with '&', and returns the consumed length.
func characterReference(v []byte) (string, int, bool) {
	if len(v) < 3 {
		return "", 0, false
	}
	if v[1] == '#' {
		start, base, maxDigits, isDigit := 2, 10, 7, util.IsNumeric
		if len(v) > 2 && (v[2] == 'x' || v[2] == 'X') {
			start, base, maxDigits, isDigit = 3, 16, 6, util.IsHexDecimal
		}
		end := start
		for end < len(v) && isDigit(v[end]) {
			end++
		}
		if end == start || end-start > maxDigits || end >= len(v) || v[end] != ';' {
			return "", 0, false
		}
		code, err := strconv.ParseUint(string(v[start:end]), base, 32)
		if err != nil {
			return "", 0, false
		}
		return string(util.ToValidRune(rune(code))), end + 1, true
	}

	end := 1
	for end < len(v) && util.IsAlphaNumeric(v[end]) {
		end++
	}
	if end == 1 || end >= len(v) || v[end] != ';' {
		return "", 0, false
	}
	entity, ok := util.LookUpHTML5EntityByName(string(v[1:end]))
	if !ok {
		return "", 0, false
	}
	return string(entity.Characters), end + 1, true
}

func unsupportedInline(n gast.Node) error {
	return fmt.Errorf("merge: unsupported inline node %s", n.Kind().String())
}
