package tassmd

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes carried by ParseError. Every failure is terminal for the
// document being parsed; no partial Request is ever returned.
const (
	CodeMissingTitleDelimiter  = "missing_title_delimiter"
	CodeMalformedTitle         = "malformed_title"
	CodeMissingDocumentation   = "missing_documentation"
	CodeMalformedSectionHeader = "malformed_section_header"
	CodeUnknownSectionHeader   = "unknown_section_header"
	CodeUnknownVersion         = "unknown_version"
	CodeUnsupportedVersion     = "unsupported_version"
	CodeMalformedParameterLine = "malformed_parameter_line"
	CodeUnknownPresence        = "unknown_presence"
	CodeMissingPresenceContext = "missing_presence_context"
	CodeUnknownType            = "unknown_type"
	CodeNoCodeBlockFound       = "no_code_block_found"
	CodeUnterminatedCodeBlock  = "unterminated_code_block"
	CodeEmptyCodeBlock         = "empty_code_block"
	CodeUnsupportedRootShape   = "unsupported_root_shape"
	CodeHeterogeneousArray     = "heterogeneous_array"
	CodeConflictingFieldType   = "conflicting_field_type"
	CodeInvalidJSON            = "invalid_json"
)

// ParseError describes why a document could not be parsed. Scope and
// Section are stamped on by the request parser so callers can locate the
// fault without re-reading the document.
type ParseError struct {
	Code    string
	Message string
	Scope   string
	Section string
	Cause   error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Scope != "" || e.Section != "" {
		b.WriteString(" (")
		if e.Scope != "" {
			fmt.Fprintf(&b, "scope %q", e.Scope)
			if e.Section != "" {
				b.WriteString(", ")
			}
		}
		if e.Section != "" {
			fmt.Fprintf(&b, "section %q", e.Section)
		}
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// AsParseError extracts a *ParseError from err's chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func errf(code, format string, args ...any) *ParseError {
	return &ParseError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// annotate stamps the document scope and current section onto an error
// coming out of a sub-parser.
func annotate(err error, scope, section string) error {
	pe, ok := AsParseError(err)
	if !ok {
		return err
	}
	if pe.Scope == "" {
		pe.Scope = scope
	}
	if pe.Section == "" {
		pe.Section = section
	}
	return pe
}
