package quietjson

import (
	"reflect"

	"github.com/quietjson/quietjson/internal/enums"
)

// Object is the dynamic form of a JSON object, as produced by ParseValue.
type Object = map[string]any

// Array is the dynamic form of a JSON array, as produced by ParseValue.
type Array = []any

// EnumValue constrains the underlying kinds usable as enumerated constants.
type EnumValue interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// RegisterEnum binds constant names to the values of an enumerated type.
// Registered types serialize as their quoted constant name and parse back
// from it, matching names case-sensitively; an unresolvable name parses to
// the zero-valued constant. Unregistered named numeric types are treated as
// plain numbers.
//
// Underlying values are carried as int64 internally. Unsigned constants
// convert through two's complement, which is exact and bijective over the
// full uint64 range, so large unsigned values still round-trip by name.
//
// Registration is process-wide and intended to happen once per type,
// typically from an init function:
//
//	type Color int
//
//	const (
//		Red Color = iota
//		Green
//		Blue
//	)
//
//	func init() {
//		quietjson.RegisterEnum(map[string]Color{
//			"Red": Red, "Green": Green, "Blue": Blue,
//		})
//	}
func RegisterEnum[E EnumValue](names map[string]E) {
	table := make(map[string]int64, len(names))
	for name, value := range names {
		table[name] = int64(value)
	}
	enums.Register(reflect.TypeOf((*E)(nil)).Elem(), table)
}
