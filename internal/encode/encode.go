// Package encode implements the value writer: it walks a runtime value and
// appends compact JSON text for it. Output carries no insignificant
// whitespace and no configurable indentation.
package encode

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/mitranim/refut"
	"github.com/quietjson/quietjson/internal/enums"
)

// Writer carries the output buffer of one serialization call. Writers are
// pooled; a Writer must not be shared between goroutines while in use.
type Writer struct {
	buf []byte
}

var writerPool = sync.Pool{
	New: func() any {
		return &Writer{buf: make([]byte, 0, 256)}
	},
}

// Get retrieves a Writer from the pool with an empty buffer.
func Get() *Writer {
	w := writerPool.Get().(*Writer)
	w.buf = w.buf[:0]
	return w
}

// Put returns a Writer to the pool.
func Put(w *Writer) {
	writerPool.Put(w)
}

// String returns the accumulated JSON text.
func (w *Writer) String() string {
	return string(w.buf)
}

// escapeTable maps bytes needing a two-character escape to their escape
// letter. Control characters outside this table are written as \u escapes.
var escapeTable = [256]byte{
	'"':  '"',
	'\\': '\\',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	'\b': 'b',
	'\f': 'f',
}

const hexUpper = "0123456789ABCDEF"

// Append writes the JSON encoding of val to the buffer. Nil values of any
// kind encode as null. Non-string-keyed maps are refused with {} rather
// than producing malformed output.
func (w *Writer) Append(val reflect.Value) {
	if !val.IsValid() {
		w.buf = append(w.buf, "null"...)
		return
	}

	typ := val.Type()
	kind := typ.Kind()

	if kind == reflect.Pointer || kind == reflect.Interface {
		if val.IsNil() {
			w.buf = append(w.buf, "null"...)
			return
		}
		w.Append(val.Elem())
		return
	}

	if tab := enums.Lookup(typ); tab != nil {
		if name := tab.Name(enumValue(val)); name != "" {
			w.buf = append(w.buf, '"')
			w.buf = append(w.buf, name...)
			w.buf = append(w.buf, '"')
			return
		}
		// Unnamed value: fall through to the numeric encoding.
	}

	switch kind {
	case reflect.Bool:
		w.buf = strconv.AppendBool(w.buf, val.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.buf = strconv.AppendInt(w.buf, val.Int(), 10)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		w.buf = strconv.AppendUint(w.buf, val.Uint(), 10)

	case reflect.Float32:
		w.appendFloat(val.Float(), 32)

	case reflect.Float64:
		w.appendFloat(val.Float(), 64)

	case reflect.String:
		w.appendString(val.String())

	case reflect.Slice:
		if val.IsNil() {
			w.buf = append(w.buf, "null"...)
			return
		}
		w.appendSequence(val)

	case reflect.Array:
		w.appendSequence(val)

	case reflect.Map:
		w.appendMap(val)

	case reflect.Struct:
		w.appendRecord(val)

	default:
		// Chan, func and friends have no JSON form.
		w.buf = append(w.buf, "null"...)
	}
}

// appendString writes a quoted, escaped string literal. Characters in the
// escape table get their two-character form; any other control character
// becomes \u followed by 4 uppercase hex digits. Everything else, non-ASCII
// bytes included, is copied verbatim.
func (w *Writer) appendString(s string) {
	w.buf = append(w.buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if esc := escapeTable[c]; esc != 0 {
			w.buf = append(w.buf, '\\', esc)
			continue
		}
		if c < 0x20 {
			w.buf = append(w.buf, '\\', 'u', '0', '0', hexUpper[c>>4], hexUpper[c&0xF])
			continue
		}
		w.buf = append(w.buf, c)
	}
	w.buf = append(w.buf, '"')
}

// appendFloat writes the minimal round-trippable decimal form for the given
// precision. Exponent notation is used only outside the [1e-6, 1e21) range,
// mirroring the common JSON number style. NaN and infinities have no JSON
// form and degrade to null.
func (w *Writer) appendFloat(f float64, bits int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.buf = append(w.buf, "null"...)
		return
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	w.buf = strconv.AppendFloat(w.buf, f, format, -1, bits)
}

func (w *Writer) appendSequence(val reflect.Value) {
	w.buf = append(w.buf, '[')
	for i := 0; i < val.Len(); i++ {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.Append(val.Index(i))
	}
	w.buf = append(w.buf, ']')
}

// appendMap writes a string-keyed map with keys in sorted order. Go map
// iteration order is randomized, so sorting is the closest deterministic
// stand-in for "iteration order". Keys are quoted verbatim, not escaped.
// Maps with a non-string key type are refused and encode as {}.
func (w *Writer) appendMap(val reflect.Value) {
	if val.IsNil() {
		w.buf = append(w.buf, "null"...)
		return
	}
	if val.Type().Key().Kind() != reflect.String {
		w.buf = append(w.buf, "{}"...)
		return
	}

	keys := make([]string, 0, val.Len())
	for _, k := range val.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	keyType := val.Type().Key()
	w.buf = append(w.buf, '{')
	for i, k := range keys {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.buf = append(w.buf, '"')
		w.buf = append(w.buf, k...)
		w.buf = append(w.buf, '"', ':')
		w.Append(val.MapIndex(reflect.ValueOf(k).Convert(keyType)))
	}
	w.buf = append(w.buf, '}')
}

// appendRecord writes a struct's exported fields in declaration order,
// flattening anonymous embedded structs, suppressing promoted fields that a
// shallower field shadows, and skipping members whose current value is nil.
// Field names come from the json tag when present.
func (w *Writer) appendRecord(val reflect.Value) {
	w.buf = append(w.buf, '{')
	open := len(w.buf)
	for _, m := range loadPlan(val.Type()) {
		field, ok := memberByPath(val, m.path)
		if !ok || isNilValue(field) {
			continue
		}
		if len(w.buf) > open {
			w.buf = append(w.buf, ',')
		}
		w.buf = append(w.buf, '"')
		w.buf = append(w.buf, m.name...)
		w.buf = append(w.buf, '"', ':')
		w.Append(field)
	}
	w.buf = append(w.buf, '}')
}

// emitMember names one field of a record's emission plan: the index path
// leads through any embedded ancestors to the field itself.
type emitMember struct {
	name string
	path []int
}

// planCache holds one emission plan per struct type, built lazily and never
// evicted. Racing first builds produce identical plans, so the last store
// winning is harmless.
var planCache sync.Map

func loadPlan(typ reflect.Type) []emitMember {
	if val, ok := planCache.Load(typ); ok {
		return val.([]emitMember)
	}
	plan := buildPlan(typ)
	planCache.Store(typ, plan)
	return plan
}

// buildPlan flattens typ's exported fields in declaration order, expanding
// anonymous embedded structs in place, then resolves name conflicts: a
// shallower field shadows deeper promoted ones, so duplicate keys never
// reach the output. At equal depth the first declaration wins.
func buildPlan(typ reflect.Type) []emitMember {
	var all []emitMember
	path := make([]int, 0, 8)
	collectMembers(&all, &path, typ)

	best := make(map[string]int, len(all))
	for i, m := range all {
		if j, ok := best[m.name]; !ok || len(m.path) < len(all[j].path) {
			best[m.name] = i
		}
	}

	plan := make([]emitMember, 0, len(all))
	for i, m := range all {
		if best[m.name] == i {
			plan = append(plan, m)
		}
	}
	return plan
}

func collectMembers(out *[]emitMember, path *[]int, typ reflect.Type) {
	for i := 0; i < typ.NumField(); i++ {
		sfield := typ.Field(i)
		if sfield.PkgPath != "" {
			continue
		}

		name := sfield.Name
		if tag, ok := sfield.Tag.Lookup("json"); ok {
			name = refut.TagIdent(tag)
			if name == "" {
				continue
			}
		} else if sfield.Anonymous {
			embedded := sfield.Type
			for embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				*path = append(*path, i)
				collectMembers(out, path, embedded)
				*path = (*path)[:len(*path)-1]
				continue
			}
		}

		*out = append(*out, emitMember{
			name: name,
			path: append(append([]int(nil), *path...), i),
		})
	}
}

// memberByPath walks an index path from root, dereferencing embedded
// pointers along the way. A nil ancestor makes the member unreachable,
// which reads as a nil value and is skipped.
func memberByPath(root reflect.Value, path []int) (reflect.Value, bool) {
	val := root
	for _, i := range path {
		for val.Kind() == reflect.Pointer {
			if val.IsNil() {
				return reflect.Value{}, false
			}
			val = val.Elem()
		}
		val = val.Field(i)
	}
	return val, true
}

// isNilValue reports whether a member's current value is null and should be
// skipped during record emission.
func isNilValue(val reflect.Value) bool {
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func:
		return val.IsNil()
	}
	return false
}

func enumValue(val reflect.Value) int64 {
	switch val.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(val.Uint())
	default:
		return val.Int()
	}
}
