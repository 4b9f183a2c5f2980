package jsondoc

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object key or an array index
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment returns an object-key segment
func KeySegment(key string) Segment {
	return Segment{Key: key}
}

// IndexSegment returns an array-index segment
func IndexSegment(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

// Path represents a JSON path from the document root (e.g., $.user.address.city)
type Path struct {
	Segments []Segment
}

// Append returns a new path with seg added at the end
func (p Path) Append(seg Segment) Path {
	segs := make([]Segment, len(p.Segments), len(p.Segments)+1)
	copy(segs, p.Segments)
	return Path{Segments: append(segs, seg)}
}

// String returns the JSONPath notation ($, $.a, $[0], $["a b"])
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, seg := range p.Segments {
		writeSegment(&b, seg)
	}
	return b.String()
}

// JQ returns the jq filter selecting this path (., .a, .[0], .["a b"])
func (p Path) JQ() string {
	if len(p.Segments) == 0 {
		return "."
	}
	var b strings.Builder
	for i, seg := range p.Segments {
		if !seg.IsIndex && isIdentifier(seg.Key) {
			b.WriteString("." + seg.Key)
			continue
		}
		if i == 0 {
			b.WriteString(".")
		}
		writeSegment(&b, seg)
	}
	return b.String()
}

// PostgreSQLPath returns the text[] literal for the PostgreSQL #> and #>> operators
func (p Path) PostgreSQLPath() string {
	parts := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		if seg.IsIndex {
			parts[i] = strconv.Itoa(seg.Index)
			continue
		}
		parts[i] = quoteArrayElement(seg.Key)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// quoteArrayElement double-quotes an element when the array parser would
// otherwise split or trim it
func quoteArrayElement(s string) string {
	if s != "" && !strings.ContainsAny(s, "{},\" \t\n\\") && !strings.EqualFold(s, "null") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func writeSegment(b *strings.Builder, seg Segment) {
	switch {
	case seg.IsIndex:
		b.WriteString("[" + strconv.Itoa(seg.Index) + "]")
	case isIdentifier(seg.Key):
		b.WriteString("." + seg.Key)
	default:
		b.WriteString("[" + Quote(seg.Key) + "]")
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// At retrieves the value at path
func (v Value) At(path Path) (Value, error) {
	current := v
	for _, seg := range path.Segments {
		switch current.Kind() {
		case KindObject:
			if seg.IsIndex {
				return Value{}, fmt.Errorf("cannot index object with [%d]", seg.Index)
			}
			val, ok := current.Get(seg.Key)
			if !ok {
				return Value{}, fmt.Errorf("key '%s' not found", seg.Key)
			}
			current = val
		case KindArray:
			if !seg.IsIndex {
				return Value{}, fmt.Errorf("invalid array index: %s", seg.Key)
			}
			val, ok := current.Index(seg.Index)
			if !ok {
				return Value{}, fmt.Errorf("array index out of bounds: %d", seg.Index)
			}
			current = val
		default:
			return Value{}, fmt.Errorf("cannot traverse into %s", current.Kind())
		}
	}
	return current, nil
}
