// Package decode implements the schema-directed and schema-free JSON
// parsers. Both are forgiving by contract: malformed input degrades to a
// zero/default/nil value at the smallest enclosing scope instead of
// producing an error. The single error path is a target shape that cannot
// be instantiated (a non-empty interface).
package decode

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mitranim/untext"
	"github.com/quietjson/quietjson/internal/enums"
	"github.com/quietjson/quietjson/internal/errors"
	"github.com/quietjson/quietjson/internal/scan"
)

// Decoder carries the scratch state of one parsing call: the whitespace
// stripping buffer and the string unescaping buffer. Decoders are pooled;
// a Decoder must not be shared between goroutines while in use.
type Decoder struct {
	clean []byte
	str   []byte
}

var decoderPool = sync.Pool{
	New: func() any { return new(Decoder) },
}

// Get retrieves a Decoder from the pool.
func Get() *Decoder {
	return decoderPool.Get().(*Decoder)
}

// Put returns a Decoder to the pool.
func Put(d *Decoder) {
	decoderPool.Put(d)
}

// Decode parses src into out, which must be a settable value. Whitespace is
// stripped once here; all recursive sub-parses operate on substrings of the
// cleaned text. The returned error is non-nil only when out's type cannot
// be instantiated; every other failure leaves a zero value behind.
func (d *Decoder) Decode(src string, out reflect.Value) error {
	d.clean = scan.Clean(d.clean[:0], src)
	return d.value(string(d.clean), out)
}

// value dispatches on out's type and fills it from text, which must already
// be cleaned.
func (d *Decoder) value(text string, out reflect.Value) error {
	typ := out.Type()

	if typ.Kind() == reflect.Pointer {
		if text == "" || text == "null" {
			out.SetZero()
			return nil
		}
		if out.IsNil() {
			out.Set(reflect.New(typ.Elem()))
		}
		return d.value(text, out.Elem())
	}

	switch typ.Kind() {
	case reflect.String:
		out.SetString(d.unquote(text))
		return nil

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if tab := enums.Lookup(typ); tab != nil {
			d.enum(text, out, tab)
			return nil
		}
		out.SetZero()
		_ = untext.Parse(text, out.Addr().Interface())
		return nil

	case reflect.Array:
		return d.array(text, out)

	case reflect.Slice:
		return d.slice(text, out)

	case reflect.Map:
		return d.mapping(text, out)

	case reflect.Struct:
		return d.record(text, out)

	case reflect.Interface:
		if typ.NumMethod() != 0 {
			return errors.NewConstructError(
				fmt.Sprintf("cannot construct a value for interface type %v", typ),
				errors.ErrNotConstructible,
			)
		}
		if v := d.dynamic(text); v != nil {
			out.Set(reflect.ValueOf(v))
		} else {
			out.SetZero()
		}
		return nil

	default:
		out.SetZero()
		return nil
	}
}

// enum resolves a constant name against the registered table. Quoted names
// have their quotes stripped first; an unresolvable name yields the
// zero-valued constant.
func (d *Decoder) enum(text string, out reflect.Value, tab *enums.Table) {
	name := text
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		name = name[1 : len(name)-1]
	}
	v := tab.Resolve(name)
	switch out.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out.SetUint(uint64(v))
	default:
		out.SetInt(v)
	}
}

// array fills a fixed-size array in order. Segments beyond the array's
// length are dropped; missing segments leave trailing elements zero.
func (d *Decoder) array(text string, out reflect.Value) error {
	out.SetZero()
	if !bracketed(text, '[', ']') {
		return nil
	}

	segs := scan.Split(text, scan.GetSegments())
	n := min(out.Len(), len(segs))

	var err error
	for i := 0; i < n && err == nil; i++ {
		err = d.value(segs[i], out.Index(i))
	}
	scan.PutSegments(segs)
	return err
}

// slice builds a slice sized to the segment count, parsing each element in
// order. Malformed bracketing yields a nil slice, not a partial one.
func (d *Decoder) slice(text string, out reflect.Value) error {
	if !bracketed(text, '[', ']') {
		out.SetZero()
		return nil
	}

	segs := scan.Split(text, scan.GetSegments())
	list := reflect.MakeSlice(out.Type(), len(segs), len(segs))

	var err error
	for i := 0; i < len(segs) && err == nil; i++ {
		err = d.value(segs[i], list.Index(i))
	}
	scan.PutSegments(segs)
	if err != nil {
		return err
	}
	out.Set(list)
	return nil
}

// mapping builds a string-keyed map. Non-string key types are refused with
// a nil map, as is an odd key/value segment count. Pairs with an empty key
// segment are skipped without failing the rest of the map. Keys have their
// quotes stripped but are NOT escape-decoded at this layer.
func (d *Decoder) mapping(text string, out reflect.Value) error {
	out.SetZero()
	typ := out.Type()
	if typ.Key().Kind() != reflect.String {
		return nil
	}
	if !bracketed(text, '{', '}') {
		return nil
	}

	segs := scan.Split(text, scan.GetSegments())
	if len(segs)%2 != 0 {
		scan.PutSegments(segs)
		return nil
	}

	m := reflect.MakeMapWithSize(typ, len(segs)/2)
	for k := 0; k+1 < len(segs); k += 2 {
		if len(segs[k]) <= 2 {
			continue
		}
		key := reflect.New(typ.Key()).Elem()
		key.SetString(stripQuotes(segs[k]))

		elem := reflect.New(typ.Elem()).Elem()
		if err := d.value(segs[k+1], elem); err != nil {
			scan.PutSegments(segs)
			return err
		}
		m.SetMapIndex(key, elem)
	}
	scan.PutSegments(segs)
	out.Set(m)
	return nil
}

// unquote strips the surrounding quotes and resolves escape sequences in
// one left-to-right pass. Recognized two-character escapes map to their
// character, a \u escape followed by exactly 4 hex digits maps to that code
// unit, and any other escaped character is copied literally. Text shorter
// than two characters yields the empty string.
func (d *Decoder) unquote(text string) string {
	if len(text) < 2 {
		return ""
	}
	body := text[1 : len(text)-1]
	if strings.IndexByte(body, '\\') < 0 {
		return body
	}

	buf := d.str[:0]
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i == len(body)-1 {
			buf = append(buf, c)
			continue
		}
		i++
		switch body[i] {
		case '"':
			buf = append(buf, '"')
		case '\\':
			buf = append(buf, '\\')
		case '/':
			buf = append(buf, '/')
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case 'u':
			if r, ok := hex4(body[i+1:]); ok {
				buf = utf8.AppendRune(buf, r)
				i += 4
			} else {
				buf = append(buf, 'u')
			}
		default:
			buf = append(buf, body[i])
		}
	}
	d.str = buf
	return string(buf)
}

// hex4 decodes exactly 4 leading hex digits.
func hex4(s string) (rune, bool) {
	if len(s) < 4 {
		return 0, false
	}
	var r rune
	for i := 0; i < 4; i++ {
		r <<= 4
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return r, true
}

// stripQuotes removes the first and last character of a key or literal
// segment without decoding escapes. Segments shorter than two characters
// yield the empty string.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return ""
	}
	return s[1 : len(s)-1]
}

func bracketed(text string, open, shut byte) bool {
	return len(text) >= 2 && text[0] == open && text[len(text)-1] == shut
}
