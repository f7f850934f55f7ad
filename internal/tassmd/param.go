package tassmd

import (
	"regexp"
	"strings"

	"github.com/yourorg/tassdoc/pkg/types"
)

// blankLineRe splits a parameters section into blocks. A line of nothing
// but whitespace counts as blank.
var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// parseParamLine parses one parameter declaration under an established
// presence category. Conditional entries are prose describing when other
// parameters apply, so the whole entry becomes the doc.
func (p *Parser) parseParamLine(line string, presence types.Presence) (types.Parameter, error) {
	param := types.Parameter{Presence: presence}

	if presence == types.PresenceConditional {
		param.Doc = line
		return param, nil
	}
	if presence != types.PresenceRequired && presence != types.PresenceOptional {
		return types.Parameter{}, errf(CodeUnknownPresence, "unknown presence %q", presence)
	}
	if !strings.HasPrefix(line, "`") {
		return types.Parameter{}, errf(CodeMalformedParameterLine, "parameter line must start with a backtick: %q", line)
	}

	span, doc, found := strings.Cut(line[1:], "` - ")
	if found {
		param.Doc = doc
	} else if p.strictParamDoc {
		return types.Parameter{}, errf(CodeMalformedParameterLine, "parameter line has no doc separator: %q", line)
	}

	span = strings.ReplaceAll(span, "`", "")
	name, typeToken, found := strings.Cut(span, " ")
	param.Name = name
	if found {
		token := strings.TrimSpace(typeToken)
		if len(token) < 2 || token[0] != '[' || token[len(token)-1] != ']' {
			return types.Parameter{}, errf(CodeMalformedParameterLine, "expected a bracketed type token, got %q", token)
		}
		tag, err := TagType(token[1 : len(token)-1])
		if err != nil {
			return types.Parameter{}, err
		}
		param.Type = tag
	}
	return param, nil
}

// parseParams splits a parameters section body into blank-line separated
// blocks. A block opening with ** is a presence marker and sets the
// category for everything after it. "none" is the dialect's empty-category
// sentinel.
func (p *Parser) parseParams(body string) ([]types.Parameter, error) {
	var params []types.Parameter
	var presence types.Presence

	for _, chunk := range blankLineRe.Split(body, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		rest := chunk
		if strings.HasPrefix(chunk, "**") {
			marker, remainder, _ := strings.Cut(chunk, "\n")
			name := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(marker, "*", ""), ":", ""))
			switch name {
			case "required":
				presence = types.PresenceRequired
			case "optional":
				presence = types.PresenceOptional
			case "conditional":
				presence = types.PresenceConditional
			default:
				return nil, errf(CodeUnknownPresence, "unknown presence marker %q", name)
			}
			rest = strings.TrimSpace(remainder)
			if rest == "" {
				continue
			}
		}

		if presence == "" {
			return nil, errf(CodeMissingPresenceContext, "parameter entry before any presence marker: %q", rest)
		}
		if strings.EqualFold(rest, "none") {
			continue
		}

		if presence == types.PresenceConditional {
			param, err := p.parseParamLine(rest, presence)
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			continue
		}
		for _, line := range strings.Split(rest, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.EqualFold(line, "none") {
				continue
			}
			param, err := p.parseParamLine(line, presence)
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		}
	}
	return params, nil
}
