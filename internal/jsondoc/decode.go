package jsondoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// Decode reads exactly one JSON value from r, keeping object key order
func Decode(r io.Reader) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, fmt.Errorf("failed to read JSON: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, fmt.Errorf("invalid JSON: empty document")
	}
	// The token stream skips delimiters, so the grammar is checked up front
	if !json.Valid(data) {
		return Value{}, syntaxError(data)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, fmt.Errorf("invalid JSON: empty document")
		}
		return Value{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// Only whitespace may follow the document
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return Value{}, fmt.Errorf("invalid JSON: unexpected data after top-level value")
		}
		return Value{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return v, nil
}

func syntaxError(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return errors.New("invalid JSON: unexpected data after top-level value")
}

// Parse decodes a JSON document held in memory
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// MustParse is Parse for literals known to be valid; it panics otherwise
func MustParse(s string) Value {
	v, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t.String()), nil
	case float64:
		return Number(fmt.Sprint(t)), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeArray(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Array(items...), nil
}

func decodeObject(dec *json.Decoder) (Value, error) {
	var members []Member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key must be a string, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: val})
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Object(members...), nil
}
