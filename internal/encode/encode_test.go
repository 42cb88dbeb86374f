package encode

import (
	"math"
	"reflect"
	"testing"

	"github.com/quietjson/quietjson/internal/enums"
	"github.com/stretchr/testify/assert"
)

func encodeOf(v any) string {
	w := Get()
	defer Put(w)
	w.Append(reflect.ValueOf(v))
	return w.String()
}

func TestAppend_Primitives(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "nil", value: nil, expected: "null"},
		{name: "true", value: true, expected: "true"},
		{name: "false", value: false, expected: "false"},
		{name: "int", value: 42, expected: "42"},
		{name: "negative int", value: -7, expected: "-7"},
		{name: "uint", value: uint16(65535), expected: "65535"},
		{name: "float", value: 1.5, expected: "1.5"},
		{name: "float32", value: float32(0.25), expected: "0.25"},
		{name: "integral float keeps no point", value: 3.0, expected: "3"},
		{name: "large float uses exponent", value: 1e21, expected: "1e+21"},
		{name: "nan degrades to null", value: math.NaN(), expected: "null"},
		{name: "string", value: "hello", expected: `"hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, encodeOf(tt.value))
		})
	}
}

func TestAppend_StringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "quote and backslash", value: `a"b\c`, expected: `"a\"b\\c"`},
		{name: "named control escapes", value: "a\nb\rc\td\be\ff", expected: `"a\nb\rc\td\be\ff"`},
		{name: "unnamed control uses uppercase hex", value: "a\x01b\x1f", expected: `"a\u0001b\u001F"`},
		{name: "non-ascii verbatim", value: "héllo", expected: `"héllo"`},
		{name: "solidus not escaped", value: "a/b", expected: `"a/b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, encodeOf(tt.value))
		})
	}
}

func TestAppend_Sequences(t *testing.T) {
	assert.Equal(t, "[1,2,3]", encodeOf([]int{1, 2, 3}))
	assert.Equal(t, "[]", encodeOf([]int{}))
	assert.Equal(t, "null", encodeOf([]int(nil)))
	assert.Equal(t, `[[1],[2,3]]`, encodeOf([][]int{{1}, {2, 3}}))
	assert.Equal(t, `["a","b"]`, encodeOf([2]string{"a", "b"}))
	assert.Equal(t, `[1,"x",true,null]`, encodeOf([]any{1, "x", true, nil}))
}

func TestAppend_Maps(t *testing.T) {
	assert.Equal(t, `{"a":1,"b":2}`, encodeOf(map[string]int{"b": 2, "a": 1}))
	assert.Equal(t, "{}", encodeOf(map[string]int{}))
	assert.Equal(t, "null", encodeOf(map[string]int(nil)))
	// Non-string-keyed maps are refused, not serialized malformed.
	assert.Equal(t, "{}", encodeOf(map[int]string{1: "a"}))
}

type testEnum uint8

const (
	enumZero testEnum = iota
	enumOne
)

func init() {
	enums.Register(reflect.TypeOf(enumZero), map[string]int64{
		"Zero": int64(enumZero),
		"One":  int64(enumOne),
	})
}

func TestAppend_Enums(t *testing.T) {
	assert.Equal(t, `"One"`, encodeOf(enumOne))
	assert.Equal(t, `"Zero"`, encodeOf(enumZero))
	// Values with no registered name fall back to numeric form.
	assert.Equal(t, "9", encodeOf(testEnum(9)))
}

type inner struct {
	City string
}

type outer struct {
	Name    string
	Age     int
	Score   float64 `json:"score"`
	Ignored string  `json:"-"`
	Inner   *inner
	Tags    []string
	hidden  int
}

func TestAppend_Records(t *testing.T) {
	v := outer{
		Name:    "Ada",
		Age:     36,
		Score:   1.5,
		Ignored: "nope",
		Inner:   &inner{City: "London"},
		Tags:    []string{"x"},
		hidden:  7,
	}
	expected := `{"Name":"Ada","Age":36,"score":1.5,"Inner":{"City":"London"},"Tags":["x"]}`
	assert.Equal(t, expected, encodeOf(v))
}

func TestAppend_RecordSkipsNilMembers(t *testing.T) {
	v := outer{Name: "Ada"}
	assert.Equal(t, `{"Name":"Ada","Age":0,"score":0}`, encodeOf(v))
}

type embBase struct {
	ID int
}

type embDerived struct {
	embBase
	Name string
}

func TestAppend_RecordFlattensEmbedded(t *testing.T) {
	assert.Equal(t, `{"ID":5,"Name":"x"}`, encodeOf(embDerived{embBase{5}, "x"}))
}

type shadowOuter struct {
	embBase
	ID int
}

func TestAppend_RecordShadowedEmbeddedSuppressed(t *testing.T) {
	// The outer ID shadows the promoted one; no duplicate keys are emitted.
	assert.Equal(t, `{"ID":7}`, encodeOf(shadowOuter{embBase{5}, 7}))
}

type withHandles struct {
	Name string
	Stop chan struct{}
	Tick func()
}

func TestAppend_RecordSkipsNilChanAndFuncMembers(t *testing.T) {
	assert.Equal(t, `{"Name":"x"}`, encodeOf(withHandles{Name: "x"}))
}

func TestAppend_Pointers(t *testing.T) {
	n := 42
	assert.Equal(t, "42", encodeOf(&n))
	assert.Equal(t, "null", encodeOf((*int)(nil)))
}

func TestAppend_UnsupportedKindsDegrade(t *testing.T) {
	assert.Equal(t, "null", encodeOf(make(chan int)))
}

func TestAppend_NoExtraneousWhitespace(t *testing.T) {
	out := encodeOf(map[string]any{"a": []any{1, "b c"}})
	assert.Equal(t, `{"a":[1,"b c"]}`, out)
}
