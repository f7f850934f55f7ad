// Package tassmd parses TASS API documentation markdown into typed
// request descriptions with inferred response schemas. The dialect is
// quasi-fixed: a title line above a ---- delimiter, bulleted bold section
// headers, presence-grouped parameter lists, and fenced JSON/JS samples.
// Anything outside it fails with a coded ParseError rather than producing
// a partial result.
package tassmd

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/yourorg/tassdoc/pkg/types"
)

// headerRe matches the lead-in of a section header, a bullet followed by
// bold text.
var headerRe = regexp.MustCompile(`\* +\*\*`)

const titleDelimiter = "----"

// Parser converts TASS documentation into Request records. The zero value
// uses the tolerant policies; New applies options.
type Parser struct {
	strictParamDoc bool
	requireV3      bool
	strictNulls    bool
}

// Option adjusts a policy the dialect's source material is inconsistent
// about.
type Option func(*Parser)

// WithStrictParamDoc rejects required and optional parameter lines that
// have no doc separator instead of leaving the doc empty.
func WithStrictParamDoc(strict bool) Option {
	return func(p *Parser) { p.strictParamDoc = strict }
}

// WithRequireV3 rejects version 2 documents, the dialect variant that may
// omit the permission section.
func WithRequireV3(require bool) Option {
	return func(p *Parser) { p.requireV3 = require }
}

// WithStrictNulls rejects null elements inside sample arrays instead of
// ignoring them.
func WithStrictNulls(strict bool) Option {
	return func(p *Parser) { p.strictNulls = strict }
}

// New builds a Parser. Without options every ambiguous-dialect policy is
// tolerant: missing param docs are empty, versions 2 and 3 both parse,
// and nulls inside sample arrays are skipped.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse parses one document with the default tolerant policies.
func Parse(text, scope string) (*types.Request, error) {
	return defaultParser.Parse(text, scope)
}

// Parse converts one document into a Request. scope is attached verbatim
// and stamped onto any error. Parse never returns a partial Request.
func (p *Parser) Parse(text, scope string) (*types.Request, error) {
	req := &types.Request{Scope: scope}

	title, body, found := strings.Cut(text, titleDelimiter)
	if !found {
		return nil, annotate(errf(CodeMissingTitleDelimiter, "document has no ---- title delimiter"), scope, "")
	}
	action, resource, err := splitTitle(title)
	if err != nil {
		return nil, annotate(err, scope, "")
	}
	req.Action, req.Resource = action, resource

	sections := headerRe.Split(body, -1)
	doc := strings.TrimSpace(sections[0])
	if strings.Contains(doc, ":**") {
		return nil, annotate(errf(CodeMissingDocumentation, "document has no description before its first section"), scope, "")
	}
	req.Doc = doc

	for _, section := range sections[1:] {
		header, sbody, found := strings.Cut(section, ":**")
		if !found {
			return nil, annotate(errf(CodeMalformedSectionHeader, "section header has no closing :** marker: %q", firstLine(section)), scope, "")
		}
		if err := p.parseSection(req, header, sbody); err != nil {
			return nil, annotate(err, scope, header)
		}
	}
	return req, nil
}

// parseSection dispatches one section body by its lowercased header.
// Unknown headers fail loudly so dialect drift is noticed instead of
// silently dropped.
func (p *Parser) parseSection(req *types.Request, header, body string) error {
	var err error
	switch strings.ToLower(header) {
	case "version history", "method", "sample get", "sample post":
		// informational only
	case "version":
		req.Version, err = p.parseVersion(strings.TrimSpace(body))
	case "permission":
		perm := strings.TrimSpace(body)
		req.Permissions = &perm
	case "params", "parameters":
		req.Params, err = p.parseParams(strings.TrimSpace(body))
	case "success response":
		req.SuccessResponse, err = p.parseSuccessResponse(strings.TrimSpace(body))
	case "error response":
		req.ErrorResponse, err = p.parseErrorResponse(strings.TrimSpace(body))
	case "sample parameters":
		req.SampleParams = strings.TrimSpace(body)
	default:
		err = errf(CodeUnknownSectionHeader, "unknown section header %q", header)
	}
	return err
}

func (p *Parser) parseVersion(s string) (int, error) {
	switch s {
	case "1":
		return 0, errf(CodeUnsupportedVersion, "version 1 documents are not supported")
	case "2":
		if p.requireV3 {
			return 0, errf(CodeUnsupportedVersion, "version 2 rejected, version 3 required")
		}
		return 2, nil
	case "3":
		return 3, nil
	default:
		return 0, errf(CodeUnknownVersion, "unknown version %q", s)
	}
}

// splitTitle strips the emphasis off the title and splits it at the first
// interior uppercase letter, so "getStudentDetails" becomes action "get"
// and resource "StudentDetails".
func splitTitle(title string) (action, resource string, err error) {
	name := strings.TrimSpace(strings.ReplaceAll(title, "*", ""))
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			return name[:i], name[i:], nil
		}
	}
	return "", "", errf(CodeMalformedTitle, "title %q has no action/resource boundary", name)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if len(line) > 60 {
		line = line[:60]
	}
	return line
}
