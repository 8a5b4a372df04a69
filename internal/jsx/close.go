package jsx

// FindClose searches src from open.End for the tag closing open, skipping
// code spans, backslash escapes and expression islands. Nested tags with the
// same name are counted so `<a><a></a></a>` pairs correctly. It returns
// ok=false when src ends first.
func FindClose(src []byte, open Tag) (closing Tag, ok bool, err error) {
	depth := 0
	i := open.End
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '`':
			i = skipCodeSpan(src, i)
		case '{':
			end, err := ScanExpression(src, i)
			if err != nil {
				return Tag{}, false, err
			}
			i = end
		case '<':
			tag, isTag, err := ScanTag(src, i)
			if err != nil {
				return Tag{}, false, err
			}
			if !isTag {
				i++
				continue
			}
			if tag.Name == open.Name {
				switch tag.Kind {
				case TagOpen:
					depth++
				case TagClose:
					if depth == 0 {
						return tag, true, nil
					}
					depth--
				}
			}
			i = tag.End
		default:
			i++
		}
	}
	return Tag{}, false, nil
}

// skipCodeSpan returns the offset past the code span opened by the backtick
// run at src[pos], or past the run itself when no closing run exists.
func skipCodeSpan(src []byte, pos int) int {
	run := backtickRun(src, pos)
	for i := pos + run; i < len(src); {
		if src[i] != '`' {
			i++
			continue
		}
		n := backtickRun(src, i)
		if n == run {
			return i + n
		}
		i += n
	}
	return pos + run
}

func backtickRun(src []byte, pos int) int {
	n := 0
	for pos+n < len(src) && src[pos+n] == '`' {
		n++
	}
	return n
}
