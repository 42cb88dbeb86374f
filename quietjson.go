// Package quietjson is a forgiving, reflection-driven JSON codec. It parses
// JSON text into typed Go values or into a dynamic value tree, and
// serializes arbitrary Go values back to compact JSON text.
//
// The defining property is the silent-degrade contract: malformed input
// never produces an error. A bad bracket, an unterminated string, or text
// that does not fit the target type degrades to a zero/default/nil value at
// the smallest enclosing scope, and sibling values keep parsing. The caller
// cannot distinguish "the input held a zero value" from "the input was
// malformed and recovered" — this ambiguity is deliberate. The single error
// path is a target shape that cannot be instantiated, such as a non-empty
// interface type.
//
// Recursion depth equals the JSON nesting depth; pathologically deep input
// can exhaust the call stack. There is no cancellation, no I/O, and no
// streaming: a call runs to completion on the text it was given.
package quietjson

import (
	"reflect"

	"github.com/quietjson/quietjson/internal/decode"
	"github.com/quietjson/quietjson/internal/encode"
	"github.com/quietjson/quietjson/internal/errors"
)

// Parse parses src into a value of type T. Malformed input yields T's zero
// value and a nil error; the error is non-nil only when T cannot be
// instantiated, which in practice means a non-empty interface type.
//
// Struct fields are matched to JSON keys case-insensitively, with a
// json:"name" tag taking priority and snake_case keys matching CamelCase
// fields. Keys that match no field are ignored, so inputs with extra or
// missing fields parse cleanly. No constructors or methods run on the
// result: it starts life as a plain zero value and has matching members
// assigned in JSON key order.
func Parse[T any](src string) (T, error) {
	var out T
	err := ParseInto(src, &out)
	return out, err
}

// ParseInto is the non-generic form of Parse. out must be a non-nil
// pointer; anything else returns a construct error. The pointed-to value is
// overwritten, not merged.
func ParseInto(src string, out any) error {
	rv := reflect.ValueOf(out)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.NewConstructError("parse target must be a non-nil pointer", errors.ErrInvalidTarget)
	}

	dec := decode.Get()
	defer decode.Put(dec)
	return dec.Decode(src, rv.Elem())
}

// ParseValue parses src without a target shape, inferring the value form
// from the text: objects become Object, arrays become Array, numbers become
// int64 or float64 (float64 only when the text contains a decimal point),
// and unrecognizable text becomes nil. ParseValue cannot fail.
func ParseValue(src string) any {
	dec := decode.Get()
	defer decode.Put(dec)
	return dec.Dynamic(src)
}

// Serialize returns the compact JSON encoding of v: no pretty-printing, no
// insignificant whitespace. Nil values encode as null, registered enum
// values as their quoted constant name, and maps with a non-string key type
// are refused with {}. Struct members are emitted in declaration order,
// skipping members whose current value is nil.
func Serialize(v any) string {
	w := encode.Get()
	defer encode.Put(w)
	w.Append(reflect.ValueOf(v))
	return w.String()
}
