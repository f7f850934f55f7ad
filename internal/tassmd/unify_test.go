package tassmd

import (
	"testing"

	"github.com/yourorg/tassdoc/pkg/types"
)

func mustUnify(t *testing.T, a, b *types.Response) *types.Response {
	t.Helper()
	res, err := Unify(a, b)
	if err != nil {
		t.Fatalf("unify: %v", err)
	}
	return res
}

func TestUnifyDisjointKeys(t *testing.T) {
	a := mustInfer(t, `{"a":1}`)
	b := mustInfer(t, `{"b":"x"}`)
	res := mustUnify(t, a, b)
	if res.Len() != 2 {
		t.Fatalf("expected 2 fields, got %d", res.Len())
	}
	keys := res.Keys()
	if keys[0] != "a" || keys[1] != "b" {
		t.Errorf("expected first-seen order [a b], got %v", keys)
	}
}

func TestUnifyIdempotent(t *testing.T) {
	a := mustInfer(t, `{"rows":[{"x":1}],"ok":true}`)
	res := mustUnify(t, a, a)
	if !res.Equal(a) {
		t.Error("unify(a, a) should equal a")
	}
}

func TestUnifyCommutative(t *testing.T) {
	a := mustInfer(t, `{"rows":[{"x":1}],"ok":true}`)
	b := mustInfer(t, `{"rows":[{"y":2}],"count":3}`)
	ab := mustUnify(t, a, b)
	ba := mustUnify(t, b, a)
	if !ab.Equal(ba) {
		t.Error("unify(a, b) and unify(b, a) differ beyond key order")
	}
}

func TestUnifyAssociative(t *testing.T) {
	a := mustInfer(t, `{"rows":[{"x":1}]}`)
	b := mustInfer(t, `{"rows":[{"y":2}],"ok":true}`)
	c := mustInfer(t, `{"rows":[],"count":1}`)
	left := mustUnify(t, mustUnify(t, a, b), c)
	right := mustUnify(t, a, mustUnify(t, b, c))
	if !left.Equal(right) {
		t.Error("unify is not associative on these schemas")
	}
}

func TestUnifyEmptyVsPopulatedArray(t *testing.T) {
	empty := mustInfer(t, `{"rows":[]}`)
	full := mustInfer(t, `{"rows":[{"x":1}]}`)

	for _, res := range []*types.Response{
		mustUnify(t, empty, full),
		mustUnify(t, full, empty),
	} {
		f, ok := res.Get("rows")
		if !ok || f.Kind != types.KindArray {
			t.Fatalf("expected array field rows, got %+v", f)
		}
		if f.Nested == nil {
			t.Fatal("expected the populated side's nested schema to win")
		}
		if _, ok := f.Nested.Get("x"); !ok {
			t.Error("nested schema missing key x")
		}
	}
}

func TestUnifyKindConflict(t *testing.T) {
	a := mustInfer(t, `{"value":1}`)
	b := mustInfer(t, `{"value":{"nested":true}}`)
	_, err := Unify(a, b)
	assertCode(t, err, CodeConflictingFieldType)
}

func TestUnifyNestedConflict(t *testing.T) {
	a := mustInfer(t, `{"rows":[{"v":1}]}`)
	b := mustInfer(t, `{"rows":[{"v":[1]}]}`)
	_, err := Unify(a, b)
	assertCode(t, err, CodeConflictingFieldType)
}

func TestUnifyRecursesIntoObjects(t *testing.T) {
	a := mustInfer(t, `{"token":{"timestamp":"x"}}`)
	b := mustInfer(t, `{"token":{"expires":"y"}}`)
	res := mustUnify(t, a, b)
	f, _ := res.Get("token")
	if f.Nested == nil || f.Nested.Len() != 2 {
		t.Fatalf("expected merged nested schema with 2 fields, got %+v", f.Nested)
	}
}

func TestUnifyDoesNotMutateInputs(t *testing.T) {
	a := mustInfer(t, `{"rows":[]}`)
	b := mustInfer(t, `{"rows":[{"x":1}],"extra":true}`)
	mustUnify(t, a, b)

	if a.Len() != 1 {
		t.Errorf("input a grew to %d fields", a.Len())
	}
	f, _ := a.Get("rows")
	if f.Nested != nil {
		t.Error("input a's empty array gained a nested schema")
	}
	if b.Len() != 2 {
		t.Errorf("input b changed to %d fields", b.Len())
	}
}
