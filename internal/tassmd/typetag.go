package tassmd

import "github.com/yourorg/tassdoc/pkg/types"

// typeTags maps the contents of a bracketed type token to its canonical
// tag. Read-only after init, safe for concurrent use.
var typeTags = map[string]types.TypeTag{
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

// TagType resolves a type token, brackets already stripped, to its
// canonical tag.
func TagType(token string) (types.TypeTag, error) {
	tag, ok := typeTags[token]
	if !ok {
		return "", errf(CodeUnknownType, "unknown type token %q", token)
	}
	return tag, nil
}
