package tassmd

import "github.com/yourorg/tassdoc/pkg/types"

// Unify merges two response schemas into one consistent with both. Keys
// keep first-seen order: all of a's keys, then b's additions. A field
// present on both sides must agree on kind; a missing nested schema on
// either side means "no constraint", so the populated side wins rather
// than conflicting (one sample's array is often empty where another's is
// not). Neither input is mutated; the result may share nested schemas
// with the inputs.
func Unify(a, b *types.Response) (*types.Response, error) {
	res := types.NewResponse()
	for _, f := range a.Fields() {
		res.Set(f)
	}
	for _, bf := range b.Fields() {
		af, ok := res.Get(bf.Key)
		if !ok {
			res.Set(bf)
			continue
		}
		if af.Kind != bf.Kind {
			return nil, errf(CodeConflictingFieldType, "field %q has conflicting types %s and %s", bf.Key, af.Kind, bf.Kind)
		}
		if af.Kind == types.KindData {
			continue
		}
		switch {
		case bf.Nested == nil:
			// keep af as stored
		case af.Nested == nil:
			res.Set(types.ResponseField{Key: bf.Key, Kind: bf.Kind, Nested: bf.Nested})
		default:
			merged, err := Unify(af.Nested, bf.Nested)
			if err != nil {
				return nil, err
			}
			res.Set(types.ResponseField{Key: af.Key, Kind: af.Kind, Nested: merged})
		}
	}
	return res, nil
}
