package markdown

import (
	"strconv"

	"github.com/goliatone/go-slug"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// slugIDs generates heading ids with go-slug, de-duplicating repeats with a
// numeric suffix ("intro", "intro-1", ...).
type slugIDs struct {
	used map[string]struct{}
}

func newSlugIDs() parser.IDs {
	return &slugIDs{used: map[string]struct{}{}}
}

func (s *slugIDs) Generate(value []byte, kind gast.NodeKind) []byte {
	base, err := slug.Normalize(string(value))
	if err != nil || base == "" {
		base = "heading"
		if kind != gast.KindHeading {
			base = "id"
		}
	}
	id := base
	for i := 1; ; i++ {
		if _, taken := s.used[id]; !taken {
			break
		}
		id = base + "-" + strconv.Itoa(i)
	}
	s.used[id] = struct{}{}
	return []byte(id)
}

func (s *slugIDs) Put(value []byte) {
	s.used[string(value)] = struct{}{}
}
