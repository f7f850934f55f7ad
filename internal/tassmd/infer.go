package tassmd

import (
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/yourorg/tassdoc/pkg/types"
)

// InferSchema derives a response schema from a decoded JSON sample using
// the default policies. The top level must be an object or an array of
// objects.
func InferSchema(v any) (*types.Response, error) {
	return defaultParser.inferSchema(v)
}

func (p *Parser) inferSchema(v any) (*types.Response, error) {
	switch t := v.(type) {
	case *jsonObject:
		return p.inferObject(t)
	case []any:
		res := types.NewResponse()
		for _, el := range t {
			if el == nil {
				if p.strictNulls {
					return nil, errf(CodeUnsupportedRootShape, "top-level array has null elements")
				}
				continue
			}
			obj, ok := el.(*jsonObject)
			if !ok {
				return nil, errf(CodeUnsupportedRootShape, "top-level array elements must be objects, got %s", jsonTypeName(el))
			}
			s, err := p.inferObject(obj)
			if err != nil {
				return nil, err
			}
			res, err = Unify(res, s)
			if err != nil {
				return nil, err
			}
		}
		return res, nil
	default:
		return nil, errf(CodeUnsupportedRootShape, "expected a JSON object, got %s", jsonTypeName(v))
	}
}

func (p *Parser) inferObject(obj *jsonObject) (*types.Response, error) {
	res := types.NewResponse()
	for _, k := range obj.keys {
		switch v := obj.values[k].(type) {
		case *jsonObject:
			nested, err := p.inferObject(v)
			if err != nil {
				return nil, err
			}
			res.Set(types.ResponseField{Key: k, Kind: types.KindObject, Nested: nested})
		case []any:
			f, err := p.inferArrayField(k, v)
			if err != nil {
				return nil, err
			}
			res.Set(f)
		default:
			res.Set(types.ResponseField{Key: k, Kind: types.KindData})
		}
	}
	return res, nil
}

// inferArrayField classifies one array value. Uniform primitive elements
// make a plain array field; object elements fold into a unified nested
// schema; mixing element classes is an error. Nulls carry no shape
// information and are skipped unless the strict-nulls policy is on.
func (p *Parser) inferArrayField(key string, arr []any) (types.ResponseField, error) {
	f := types.ResponseField{Key: key, Kind: types.KindArray}

	classes := make(map[string]bool)
	var objs []*jsonObject
	for _, el := range arr {
		switch v := el.(type) {
		case nil:
			if p.strictNulls {
				return f, errf(CodeHeterogeneousArray, "array %q has null elements", key)
			}
		case *jsonObject:
			classes["object"] = true
			objs = append(objs, v)
		case []any:
			return f, errf(CodeHeterogeneousArray, "array %q nests another array", key)
		case string:
			classes["string"] = true
		case json.Number:
			classes["number"] = true
		case bool:
			classes["boolean"] = true
		default:
			return f, errf(CodeHeterogeneousArray, "array %q has unsupported element %s", key, jsonTypeName(v))
		}
	}
	if len(classes) > 1 {
		names := make([]string, 0, len(classes))
		for c := range classes {
			names = append(names, c)
		}
		sort.Strings(names)
		return f, errf(CodeHeterogeneousArray, "array %q mixes element types: %s", key, strings.Join(names, ", "))
	}

	if len(objs) == 0 {
		// empty, all nulls, or uniform primitives
		return f, nil
	}
	nested := types.NewResponse()
	for _, o := range objs {
		s, err := p.inferObject(o)
		if err != nil {
			return f, err
		}
		nested, err = Unify(nested, s)
		if err != nil {
			return f, err
		}
	}
	f.Nested = nested
	return f, nil
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *jsonObject:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return "unknown"
	}
}
