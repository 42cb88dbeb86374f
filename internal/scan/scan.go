// Package scan provides the lexical layer of the codec: whitespace
// stripping, escape-aware string-span scanning, and splitting of bracketed
// spans into their top-level segments.
//
// All three operations are defensive: they never fail on malformed input.
// An unterminated string literal is consumed to the end of the text, and a
// span with unbalanced brackets simply produces whatever segments its
// top-level separators delimit.
package scan

import "sync"

// Clean appends src to dst with every whitespace character outside string
// literals removed. Characters inside string literals, whitespace included,
// are copied verbatim. Cleaning already-cleaned text is a no-op copy.
//
// Clean is meant to run once per top-level parse; recursive sub-parses
// operate on substrings of the cleaned text and must not clean again.
func Clean(dst []byte, src string) []byte {
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '"' {
			end := StringSpan(src, i)
			dst = append(dst, src[i:end+1]...)
			i = end
			continue
		}
		if isSpace(c) {
			continue
		}
		dst = append(dst, c)
	}
	return dst
}

// StringSpan returns the index of the unescaped double quote that closes the
// string literal opening at src[open]. A backslash consumes the following
// character without interpreting it, so escaped quotes do not terminate the
// span. If the literal is unterminated, the last index of src is returned.
func StringSpan(src string, open int) int {
	for i := open + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return len(src) - 1
}

// Split appends to segs the top-level segments of a bracketed span: the
// substrings between span's outer delimiters, cut at commas and colons that
// sit at nesting depth zero. For an object span the result alternates
// key/value; for an array span it lists the elements. String literals are
// skipped wholesale, so punctuation inside them never affects depth or
// splitting. The empty spans "{}" and "[]" yield no segments.
//
// The span must include its outer delimiters; Split does not validate them.
func Split(span string, segs []string) []string {
	if len(span) <= 2 {
		return segs
	}

	depth := 0
	start := 1
	last := len(span) - 1

	for i := 1; i < last; i++ {
		switch span[i] {
		case '"':
			i = StringSpan(span, i)
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case ',', ':':
			if depth == 0 {
				segs = append(segs, span[start:i])
				start = i + 1
			}
		}
	}
	return append(segs, span[start:last])
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// segPool recycles segment slices across Split calls to avoid repeated
// allocation on deeply nested input.
var segPool = sync.Pool{
	New: func() any {
		s := make([]string, 0, 16)
		return &s
	},
}

// GetSegments returns an empty segment slice from the pool. The caller owns
// it until PutSegments is called.
func GetSegments() []string {
	return (*segPool.Get().(*[]string))[:0]
}

// PutSegments returns a segment slice to the pool. The slice must not be
// used after this call.
func PutSegments(segs []string) {
	segPool.Put(&segs)
}
