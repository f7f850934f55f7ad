package tassmd

import (
	"testing"

	"github.com/yourorg/tassdoc/pkg/types"
)

func TestTagTypeKnownTokens(t *testing.T) {
	cases := map[string]types.TypeTag{
		"boolean":                           types.TagBool,
		"date":                              types.TagDate,
		"date dd/mm/yyyy":                   types.TagDate,
		"timestamp yyyy-MM-dd HH:mm:ss.SSS": types.TagDatetime,
		"decimal":                           types.TagFloat,
		"number":                            types.TagInt,
		"num":                               types.TagInt,
		"integer":                           types.TagInt,
		"array":                             types.TagList,
		"string":                            types.TagStr,
		"time":                              types.TagTime,
		`integer or "all"`:                  types.TagAny,
	}
	for token, want := range cases {
		got, err := TagType(token)
		if err != nil {
			t.Errorf("TagType(%q): %v", token, err)
			continue
		}
		if got != want {
			t.Errorf("TagType(%q) = %s, want %s", token, got, want)
		}
	}
}

func TestTagTypeUnknown(t *testing.T) {
	_, err := TagType("guid")
	pe := assertCode(t, err, CodeUnknownType)
	if pe.Message == "" {
		t.Error("expected a message naming the token")
	}
}
