package decode

import (
	"strconv"
	"strings"

	"github.com/quietjson/quietjson/internal/scan"
)

// Dynamic parses src without a shape hint, inferring the value form from
// the text alone. Objects become map[string]any, arrays []any, numbers
// int64 or float64, and anything unrecognizable nil.
func (d *Decoder) Dynamic(src string) any {
	d.clean = scan.Clean(d.clean[:0], src)
	return d.dynamic(string(d.clean))
}

// dynamic resolves one cleaned substring. Note the shallow string
// un-escape: quoted text has its quotes stripped and every literal
// backslash removed, which is deliberately NOT the full escape decoding of
// the schema-directed parser. The asymmetry is intentional; see DESIGN.md.
func (d *Decoder) dynamic(text string) any {
	if text == "" {
		return nil
	}
	last := len(text) - 1

	switch {
	case text[0] == '{' && text[last] == '}':
		segs := scan.Split(text, scan.GetSegments())
		if len(segs)%2 != 0 {
			scan.PutSegments(segs)
			return nil
		}
		obj := make(map[string]any, len(segs)/2)
		for k := 0; k+1 < len(segs); k += 2 {
			obj[stripQuotes(segs[k])] = d.dynamic(segs[k+1])
		}
		scan.PutSegments(segs)
		return obj

	case text[0] == '[' && text[last] == ']':
		segs := scan.Split(text, scan.GetSegments())
		arr := make([]any, len(segs))
		for i := range segs {
			arr[i] = d.dynamic(segs[i])
		}
		scan.PutSegments(segs)
		return arr

	case text[0] == '"' && last > 0 && text[last] == '"':
		return strings.ReplaceAll(text[1:last], `\`, "")

	case text[0] == '-' || (text[0] >= '0' && text[0] <= '9'):
		if strings.IndexByte(text, '.') >= 0 {
			f, _ := strconv.ParseFloat(text, 64)
			return f
		}
		n, _ := strconv.ParseInt(text, 10, 64)
		return n

	case text == "true":
		return true

	case text == "false":
		return false
	}
	return nil
}
