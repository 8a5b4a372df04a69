package jsx

import "bytes"

// ScanExpression reads a `{...}` island starting at src[pos], which must be
// '{'. It returns the offset just past the matching '}'. Nested braces,
// quoted strings, template literals (with `${}` substitutions) and comments
// are skipped so braces inside them do not count.
func ScanExpression(src []byte, pos int) (int, error) {
	if pos >= len(src) || src[pos] != '{' {
		return 0, errorf(pos, "expected `{`")
	}

	// stack holds '{' for brace frames and '`' for template frames.
	stack := []byte{'{'}
	i := pos + 1
	for i < len(src) {
		c := src[i]
		if stack[len(stack)-1] == '`' {
			switch {
			case c == '\\':
				i += 2
			case c == '`':
				stack = stack[:len(stack)-1]
				i++
			case c == '$' && i+1 < len(src) && src[i+1] == '{':
				stack = append(stack, '{')
				i += 2
			default:
				i++
			}
			continue
		}

		switch c {
		case '{':
			stack = append(stack, '{')
			i++
		case '}':
			stack = stack[:len(stack)-1]
			i++
			if len(stack) == 0 {
				return i, nil
			}
		case '\'', '"':
			end := skipQuoted(src, i)
			if end < 0 {
				return 0, errorf(pos, "unterminated string in expression, expected `%c` and then `}`", c)
			}
			i = end
		case '`':
			stack = append(stack, '`')
			i++
		case '/':
			switch {
			case i+1 < len(src) && src[i+1] == '/':
				nl := bytes.IndexByte(src[i:], '\n')
				if nl < 0 {
					i = len(src)
				} else {
					i += nl
				}
			case i+1 < len(src) && src[i+1] == '*':
				end := bytes.Index(src[i+2:], []byte("*/"))
				if end < 0 {
					return 0, errorf(pos, "unterminated comment in expression, expected `*/` and then `}`")
				}
				i += end + 4
			default:
				i++
			}
		default:
			i++
		}
	}

	if stack[len(stack)-1] == '`' {
		return 0, errorf(pos, "unterminated template literal in expression, expected \"`\" and then `}`")
	}
	return 0, errorf(pos, "unexpected end of input in expression, expected a corresponding closing brace `}` for `{`")
}

// skipQuoted returns the offset past the string literal opened at src[pos],
// honouring backslash escapes, or -1 when it does not terminate on its line.
func skipQuoted(src []byte, pos int) int {
	quote := src[pos]
	for i := pos + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			return -1
		}
	}
	return -1
}

// IsEmptyExpression reports whether the expression source holds nothing but
// whitespace and comments, e.g. `{/* note */}`.
func IsEmptyExpression(value string) bool {
	src := []byte(value)
	i := 0
	for i < len(src) {
		switch {
		case isSpace(src[i]):
			i++
		case bytes.HasPrefix(src[i:], []byte("//")):
			nl := bytes.IndexByte(src[i:], '\n')
			if nl < 0 {
				return true
			}
			i += nl
		case bytes.HasPrefix(src[i:], []byte("/*")):
			end := bytes.Index(src[i+2:], []byte("*/"))
			if end < 0 {
				return false
			}
			i += end + 4
		default:
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
