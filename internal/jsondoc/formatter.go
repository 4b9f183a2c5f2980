package jsondoc

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// MarshalJSON writes the value as compact JSON with object keys in document order
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeValue(&buf, v, "", 0)
	return buf.Bytes(), nil
}

// writeValue writes v with object keys in document order. An empty indent
// writes compact JSON; strings are never HTML escaped.
func writeValue(buf *bytes.Buffer, v Value, indent string, depth int) {
	switch v.kind {
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			writeValue(buf, item, indent, depth+1)
		}
		if len(v.items) > 0 {
			newline(buf, indent, depth)
		}
		buf.WriteByte(']')
	case KindObject:
		members := v.Members()
		buf.WriteByte('{')
		for i, m := range members {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			buf.WriteString(Quote(m.Key))
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			writeValue(buf, m.Value, indent, depth+1)
		}
		if len(members) > 0 {
			newline(buf, indent, depth)
		}
		buf.WriteByte('}')
	default:
		buf.WriteString(Literal(v))
	}
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}

// Literal returns the JSON literal form of a primitive value.
// Containers are written compactly.
func Literal(v Value) string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		if v.number == "" {
			return "0"
		}
		return v.number
	case KindString:
		return Quote(v.str)
	default:
		out, _ := Compact(v)
		return out
	}
}

// Quote returns s as a JSON string literal without HTML escaping
func Quote(s string) string {
	out, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return fmt.Sprintf("%q", s)
	}
	return string(out)
}

// Format formats a value as a pretty-printed JSON string
func Format(v Value) (string, error) {
	var out bytes.Buffer
	writeValue(&out, v, "  ", 0)
	return out.String(), nil
}

// Compact formats a value as compact (single-line) JSON
func Compact(v Value) (string, error) {
	out, err := v.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to compact: %w", err)
	}
	return string(out), nil
}

// Valid reports whether data is a single well-formed JSON document
func Valid(data []byte) bool {
	return json.Valid(data)
}

// Truncate truncates a JSON string for single-line display
func Truncate(jsonStr string, maxLen int) string {
	if maxLen <= 3 || len(jsonStr) <= maxLen {
		return jsonStr
	}

	// Try to truncate at a reasonable boundary
	truncated := jsonStr[:maxLen-3]

	// Find last space, comma, or bracket
	lastGood := strings.LastIndexAny(truncated, " ,{}[]")
	if lastGood > maxLen/2 {
		truncated = truncated[:lastGood]
	}

	return strings.ToValidUTF8(truncated, "") + "..."
}
