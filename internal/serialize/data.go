package serialize

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-mdx/internal/estree"
)

// dataExpr deep-serialises a decoded Go value (frontmatter, structured
// attributes) into a literal. Map keys are sorted so output is stable.
func dataExpr(v any) estree.Expr {
	switch x := v.(type) {
	case nil:
		return &estree.Null{}
	case string:
		return estree.Str(x)
	case bool:
		return &estree.Bool{Value: x}
	case time.Time:
		return estree.Str(x.Format(time.RFC3339))
	case fmt.Stringer:
		return estree.Str(x.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &estree.Number{Value: float64(rv.Int())}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &estree.Number{Value: float64(rv.Uint())}
	case reflect.Float32, reflect.Float64:
		return &estree.Number{Value: rv.Float()}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return &estree.Null{}
		}
		return dataExpr(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		arr := &estree.Array{Elements: make([]estree.Expr, 0, rv.Len())}
		for i := 0; i < rv.Len(); i++ {
			arr.Elements = append(arr.Elements, dataExpr(rv.Index(i).Interface()))
		}
		return arr
	case reflect.Map:
		type entry struct {
			key   string
			value any
		}
		entries := make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, entry{key: fmt.Sprint(iter.Key().Interface()), value: iter.Value().Interface()})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		obj := &estree.Object{}
		for _, e := range entries {
			obj.Set(e.key, dataExpr(e.value))
		}
		return obj
	}
	return estree.Str(fmt.Sprint(v))
}

// styleObject parses an inline CSS declaration list into an object with
// camel-cased property names, keeping declaration order. Custom properties
// (`--x`) keep their name.
func styleObject(css string) *estree.Object {
	obj := &estree.Object{}
	for _, decl := range strings.Split(css, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		obj.Set(styleName(name), estree.Str(value))
	}
	return obj
}

func styleName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	name = strings.ToLower(name)
	if strings.HasPrefix(name, "-ms-") {
		name = name[1:]
	}
	var b strings.Builder
	upper := false
	for _, r := range name {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
