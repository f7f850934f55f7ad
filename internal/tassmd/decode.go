package tassmd

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
)

// jsonObject is a decoded JSON object that remembers key order. A plain
// map would lose it, and the docs' field order carries through to the
// inferred schema.
type jsonObject struct {
	keys   []string
	values map[string]any
}

func (o *jsonObject) set(key string, v any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// DecodeSample parses one embedded JSON sample. Objects decode to
// *jsonObject, arrays to []any, and scalars to string, json.Number, bool
// or nil.
func DecodeSample(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, &ParseError{Code: CodeInvalidJSON, Message: "invalid JSON sample", Cause: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errf(CodeInvalidJSON, "trailing data after JSON sample")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	d, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return tok, nil
	}
	switch d {
	case '{':
		obj := &jsonObject{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyTok)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		var arr []any
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", d)
	}
}
