package types

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FieldKind classifies the shape of a response field.
type FieldKind string

const (
	// KindData is a scalar leaf: string, number, boolean or null.
	KindData FieldKind = "data"
	// KindArray is a list whose element schema, if any, lives in Nested.
	KindArray FieldKind = "array"
	// KindObject is a nested object described by Nested.
	KindObject FieldKind = "object"
)

// ResponseField is one key in a response schema.
type ResponseField struct {
	Key    string    `json:"key" yaml:"key"`
	Kind   FieldKind `json:"type" yaml:"type"`
	Nested *Response `json:"nested" yaml:"nested"`
}

// Response is an insertion-ordered set of response fields. The zero value
// is an empty schema ready for use.
type Response struct {
	keys   []string
	fields map[string]ResponseField
}

// NewResponse returns an empty response schema.
func NewResponse() *Response {
	return &Response{}
}

// Set adds or replaces the field under f.Key. First insertion fixes the
// key's position; later replacements keep it.
func (r *Response) Set(f ResponseField) {
	if r.fields == nil {
		r.fields = make(map[string]ResponseField)
	}
	if _, ok := r.fields[f.Key]; !ok {
		r.keys = append(r.keys, f.Key)
	}
	r.fields[f.Key] = f
}

// Get returns the field stored under key.
func (r *Response) Get(key string) (ResponseField, bool) {
	if r == nil {
		return ResponseField{}, false
	}
	f, ok := r.fields[key]
	return f, ok
}

// Keys returns the field keys in insertion order.
func (r *Response) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Fields returns the fields in insertion order.
func (r *Response) Fields() []ResponseField {
	if r == nil {
		return nil
	}
	out := make([]ResponseField, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.fields[k])
	}
	return out
}

// Len returns the number of fields. A nil schema has none.
func (r *Response) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Equal reports whether two schemas describe the same shape: the same key
// set with the same kinds and recursively equal nested schemas. Field
// order does not matter. A nil schema equals an empty one.
func (r *Response) Equal(other *Response) bool {
	if r.Len() != other.Len() {
		return false
	}
	for _, k := range r.Keys() {
		a, _ := r.Get(k)
		b, ok := other.Get(k)
		if !ok || a.Kind != b.Kind {
			return false
		}
		if !a.Nested.Equal(b.Nested) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the schema as {"fields":{...}} with the fields in
// insertion order.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteString(`{"fields":{`)
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		fb, err := json.Marshal(r.fields[k])
		if err != nil {
			return nil, err
		}
		buf.Write(fb)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a schema from its MarshalJSON form, preserving
// field order.
func (r *Response) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	resp, err := decodeResponseBody(dec)
	if err != nil {
		return err
	}
	*r = *resp
	return nil
}

// decodeResponseBody consumes the members of a response object whose
// opening brace has already been read, including the closing brace.
func decodeResponseBody(dec *json.Decoder) (*Response, error) {
	resp := NewResponse()
	for dec.More() {
		name, err := decodeString(dec)
		if err != nil {
			return nil, err
		}
		if name != "fields" {
			return nil, fmt.Errorf("unexpected key %q in response schema", name)
		}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		for dec.More() {
			key, err := decodeString(dec)
			if err != nil {
				return nil, err
			}
			f, err := decodeResponseField(dec)
			if err != nil {
				return nil, err
			}
			if f.Key == "" {
				f.Key = key
			}
			resp.Set(f)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return resp, nil
}

func decodeResponseField(dec *json.Decoder) (ResponseField, error) {
	var f ResponseField
	if err := expectDelim(dec, '{'); err != nil {
		return f, err
	}
	for dec.More() {
		name, err := decodeString(dec)
		if err != nil {
			return f, err
		}
		switch name {
		case "key":
			s, err := decodeString(dec)
			if err != nil {
				return f, err
			}
			f.Key = s
		case "type":
			s, err := decodeString(dec)
			if err != nil {
				return f, err
			}
			f.Kind = FieldKind(s)
		case "nested":
			tok, err := dec.Token()
			if err != nil {
				return f, err
			}
			switch t := tok.(type) {
			case nil:
				// null, no nested schema
			case json.Delim:
				if t != '{' {
					return f, fmt.Errorf("unexpected delimiter %v for nested schema", t)
				}
				nested, err := decodeResponseBody(dec)
				if err != nil {
					return f, err
				}
				f.Nested = nested
			default:
				return f, fmt.Errorf("unexpected value %v for nested schema", tok)
			}
		default:
			return f, fmt.Errorf("unexpected key %q in response field", name)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return f, err
	}
	return f, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func decodeString(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %v", tok)
	}
	return s, nil
}

// MarshalYAML renders the schema as an ordered mapping under a "fields" key.
func (r *Response) MarshalYAML() (interface{}, error) {
	fields := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range r.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: k}
		valNode := &yaml.Node{}
		if err := valNode.Encode(r.fields[k]); err != nil {
			return nil, err
		}
		fields.Content = append(fields.Content, keyNode, valNode)
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "fields"},
			fields,
		},
	}, nil
}
