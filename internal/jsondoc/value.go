package jsondoc

import (
	"fmt"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the JSON type held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON type name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is one key/value pair of an object, in document order
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded JSON value. Objects keep their keys in insertion order.
// The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	number string // literal text, as it appeared in the document
	str    string
	items  []Value
	fields *orderedmap.OrderedMap[string, Value]
}

// Null returns the JSON null value
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a JSON boolean
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a JSON number from its literal text (e.g. "1.5e3")
func Number(literal string) Value {
	return Value{kind: KindNumber, number: literal}
}

// String returns a JSON string
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Array returns a JSON array holding items in order
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Object returns a JSON object holding members in order.
// A repeated key keeps its first position and its last value.
func Object(members ...Member) Value {
	fields := orderedmap.New[string, Value]()
	for _, m := range members {
		fields.Set(m.Key, m.Value)
	}
	return Value{kind: KindObject, fields: fields}
}

// Kind returns the JSON type of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsContainer reports whether the value is an object or an array
func (v Value) IsContainer() bool {
	return v.kind == KindObject || v.kind == KindArray
}

// BoolValue returns the boolean payload (false for other kinds)
func (v Value) BoolValue() bool {
	return v.b
}

// NumberLiteral returns the literal text of a number ("" for other kinds)
func (v Value) NumberLiteral() string {
	return v.number
}

// StringValue returns the string payload ("" for other kinds)
func (v Value) StringValue() string {
	return v.str
}

// Len returns the number of items or members of a container, 0 otherwise
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		if v.fields == nil {
			return 0
		}
		return v.fields.Len()
	default:
		return 0
	}
}

// Items returns the elements of an array (nil for other kinds)
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.items
}

// Members returns the members of an object in document order (nil for other kinds)
func (v Value) Members() []Member {
	if v.kind != KindObject || v.fields == nil {
		return nil
	}
	members := make([]Member, 0, v.fields.Len())
	for pair := v.fields.Oldest(); pair != nil; pair = pair.Next() {
		members = append(members, Member{Key: pair.Key, Value: pair.Value})
	}
	return members
}

// Get returns the member value stored under key
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject || v.fields == nil {
		return Value{}, false
	}
	return v.fields.Get(key)
}

// Index returns the array element at i
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// FromNative converts a value decoded by encoding/json style decoders
// (map[string]any, []any, string, float64, json.Number, bool, nil) into a Value.
// Go maps carry no order, so object keys are sorted. Anything that is not a JSON
// shape becomes a string leaf holding its fmt representation.
func FromNative(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case fmt.Stringer:
		if lit, ok := numberLiteral(t); ok {
			return Number(lit)
		}
		return String(t.String())
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Number(fmt.Sprint(t))
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromNative(item)
		}
		return Array(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			members[i] = Member{Key: k, Value: FromNative(t[k])}
		}
		return Object(members...)
	default:
		return String(fmt.Sprint(t))
	}
}

// numberLiteral recognises json.Number-like stringers
func numberLiteral(s fmt.Stringer) (string, bool) {
	type number interface {
		Float64() (float64, error)
		Int64() (int64, error)
	}
	if _, ok := s.(number); !ok {
		return "", false
	}
	lit := s.String()
	if !Valid([]byte(lit)) {
		return "", false
	}
	return lit, true
}
