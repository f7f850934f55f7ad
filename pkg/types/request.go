package types

// Presence says under which circumstances a request parameter must be sent.
type Presence string

const (
	PresenceRequired    Presence = "required"
	PresenceOptional    Presence = "optional"
	PresenceConditional Presence = "conditional"
)

// TypeTag is the canonical primitive type of a request parameter, mapped
// from the bracketed type token in the docs.
type TypeTag string

const (
	TagBool     TypeTag = "bool"
	TagDate     TypeTag = "date"
	TagDatetime TypeTag = "datetime"
	TagFloat    TypeTag = "float"
	TagInt      TypeTag = "int"
	TagList     TypeTag = "list"
	TagStr      TypeTag = "str"
	TagTime     TypeTag = "time"
	// TagAny covers tokens that admit more than one shape, like
	// `integer or "all"`.
	TagAny TypeTag = "any"
)

// Parameter is one documented request parameter.
type Parameter struct {
	Name     string   `json:"name" yaml:"name"`
	Type     TypeTag  `json:"type" yaml:"type"`
	Doc      string   `json:"doc" yaml:"doc"`
	Presence Presence `json:"presence" yaml:"presence"`
}

// Request is the parsed description of one documented API endpoint.
type Request struct {
	Action          string      `json:"action" yaml:"action"`
	Resource        string      `json:"resource" yaml:"resource"`
	Doc             string      `json:"doc" yaml:"doc"`
	Scope           string      `json:"scope" yaml:"scope"`
	Version         int         `json:"version" yaml:"version"`
	Permissions     *string     `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	Params          []Parameter `json:"params" yaml:"params"`
	SampleParams    string      `json:"sample_params,omitempty" yaml:"sample_params,omitempty"`
	SuccessResponse *Response   `json:"success_response" yaml:"success_response"`
	ErrorResponse   *Response   `json:"error_response" yaml:"error_response"`
}

// Name returns the endpoint identifier as written in the docs title,
// e.g. action "get" + resource "StudentDetails" gives "getStudentDetails".
func (r *Request) Name() string {
	return r.Action + r.Resource
}
