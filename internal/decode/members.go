package decode

import (
	"reflect"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/mitranim/refut"
	"github.com/quietjson/quietjson/internal/scan"
)

// member locates one settable field on a struct shape: the index path leads
// through any embedded ancestors to the field itself.
type member struct {
	path []int
}

// memberIndex is the case-insensitive JSON key -> member table for one
// struct type. Keys are stored lowercased; snake_case spellings of
// CamelCase field names are indexed as well, so a "user_name" key finds a
// UserName field.
type memberIndex map[string]member

func (idx memberIndex) lookup(key string) (member, bool) {
	m, ok := idx[strings.ToLower(key)]
	return m, ok
}

// indexCache holds one memberIndex per struct type, built lazily and never
// evicted. Racing first builds produce identical tables, so the last store
// winning is harmless.
var indexCache sync.Map

func loadMemberIndex(typ reflect.Type) memberIndex {
	if val, ok := indexCache.Load(typ); ok {
		return val.(memberIndex)
	}
	idx := buildMemberIndex(typ)
	indexCache.Store(typ, idx)
	return idx
}

func buildMemberIndex(typ reflect.Type) memberIndex {
	idx := make(memberIndex)
	path := make([]int, 0, 8)
	for i := 0; i < typ.NumField(); i++ {
		appendMembers(idx, &path, typ, i)
	}
	return idx
}

// appendMembers registers the field at typ.Field(index), recursing into
// anonymous embedded structs so promoted fields match by their own names.
// A shallower field claiming a name shadows deeper promoted ones; at equal
// depth the first declaration wins.
func appendMembers(idx memberIndex, path *[]int, typ reflect.Type, index int) {
	defer func(n int) { *path = (*path)[:n] }(len(*path))
	*path = append(*path, index)

	field := typ.Field(index)
	if field.PkgPath != "" {
		return
	}

	name := field.Name
	if tag, ok := field.Tag.Lookup("json"); ok {
		name = refut.TagIdent(tag)
		if name == "" {
			return
		}
	} else if field.Anonymous {
		embedded := field.Type
		for embedded.Kind() == reflect.Pointer {
			embedded = embedded.Elem()
		}
		if embedded.Kind() == reflect.Struct {
			for i := 0; i < embedded.NumField(); i++ {
				appendMembers(idx, path, embedded, i)
			}
			return
		}
	}

	m := member{path: append([]int(nil), *path...)}
	register(idx, strings.ToLower(name), m)
	register(idx, strings.ToLower(strcase.ToSnake(name)), m)
}

// register binds key to m unless a shallower field already claimed it. The
// path length is the promotion depth.
func register(idx memberIndex, key string, m member) {
	if prev, ok := idx[key]; ok && len(prev.path) <= len(m.path) {
		return
	}
	idx[key] = m
}

// fieldByPath walks an index path from root, allocating intermediate nil
// pointers so embedded pointer ancestors become settable.
func fieldByPath(root reflect.Value, path []int) reflect.Value {
	val := root
	for _, i := range path {
		for val.Kind() == reflect.Pointer {
			if val.IsNil() {
				val.Set(reflect.New(val.Type().Elem()))
			}
			val = val.Elem()
		}
		val = val.Field(i)
	}
	return val
}

// record fills a struct from a {...} span. The instance starts as a plain
// zero value: no constructors run, ever. Keys that match no member are
// discarded, keys are matched case-insensitively, and members are assigned
// in JSON key order. An odd key/value segment count returns the still-zero
// instance.
func (d *Decoder) record(text string, out reflect.Value) error {
	out.SetZero()
	if !bracketed(text, '{', '}') {
		return nil
	}

	segs := scan.Split(text, scan.GetSegments())
	if len(segs)%2 != 0 {
		scan.PutSegments(segs)
		return nil
	}

	idx := loadMemberIndex(out.Type())
	for k := 0; k+1 < len(segs); k += 2 {
		if len(segs[k]) <= 2 {
			continue
		}
		m, ok := idx.lookup(stripQuotes(segs[k]))
		if !ok {
			continue
		}
		if err := d.value(segs[k+1], fieldByPath(out, m.path)); err != nil {
			scan.PutSegments(segs)
			return err
		}
	}
	scan.PutSegments(segs)
	return nil
}
