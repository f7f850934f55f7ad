package tassmd

import (
	"strings"

	"github.com/yourorg/tassdoc/pkg/types"
)

// The docs fence their samples with either tag, inconsistently.
const (
	fenceJS   = "```javascript\n"
	fenceJSON = "```json\n"
	fenceEnd  = "```"
)

// nextCodeBlock finds the earliest fenced sample block in s, returning its
// inner text and the remainder after the closing fence.
func nextCodeBlock(s string) (inner, rest string, found bool, err error) {
	i := strings.Index(s, fenceJS)
	tag := len(fenceJS)
	if j := strings.Index(s, fenceJSON); j >= 0 && (i < 0 || j < i) {
		i, tag = j, len(fenceJSON)
	}
	if i < 0 {
		return "", "", false, nil
	}
	body := s[i+tag:]
	end := strings.Index(body, fenceEnd)
	if end < 0 {
		return "", "", false, errf(CodeUnterminatedCodeBlock, "code block has no closing fence")
	}
	return body[:end], body[end+len(fenceEnd):], true, nil
}

// repairJSON undoes the vendor's habitual shortcuts in error samples: the
// unquoted __invalid key and missing outer braces. Both patches live here
// so the inference logic never sees the broken forms.
func repairJSON(s string) string {
	s = strings.ReplaceAll(s, "__invalid:", `"__invalid":`)
	if !strings.HasPrefix(s, "{") {
		s = "{" + s + "}"
	}
	return s
}

// parseSuccessResponse extracts the single sample block of a success
// section and infers its schema.
func (p *Parser) parseSuccessResponse(body string) (*types.Response, error) {
	inner, _, found, err := nextCodeBlock(body)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errf(CodeNoCodeBlockFound, "success section has no javascript or json code block")
	}
	v, err := DecodeSample(inner)
	if err != nil {
		return nil, err
	}
	return p.inferSchema(v)
}

// parseErrorResponse folds every sample block of an error section into
// one cumulative schema. Sections often show several distinct error
// bodies; a section with no block at all yields an empty schema.
func (p *Parser) parseErrorResponse(body string) (*types.Response, error) {
	res := types.NewResponse()
	rest := body
	for {
		inner, after, found, err := nextCodeBlock(rest)
		if err != nil {
			return nil, err
		}
		if !found {
			return res, nil
		}
		rest = after

		inner = strings.TrimSpace(inner)
		if len(inner) < 2 {
			return nil, errf(CodeEmptyCodeBlock, "error sample block is empty")
		}
		v, err := DecodeSample(repairJSON(inner))
		if err != nil {
			return nil, err
		}
		s, err := p.inferSchema(v)
		if err != nil {
			return nil, err
		}
		res, err = Unify(res, s)
		if err != nil {
			return nil, err
		}
	}
}
