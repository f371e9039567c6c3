package domain

import "context"

// ParamType identifies the semantic type a declared action parameter is
// coerced to before the handler runs.
type ParamType string

const (
	// TypeInt coerces strings and JSON numbers to int.
	TypeInt ParamType = "int"
	// TypeBool recognises "true"/"1"/"yes" (case-insensitive) as true.
	TypeBool ParamType = "bool"
	// TypeFloat coerces strings and JSON numbers to float64.
	TypeFloat ParamType = "float"
	// TypeTimestamp parses ISO-8601 strings, accepting a trailing Z as UTC.
	TypeTimestamp ParamType = "timestamp"
	// TypeList accepts a JSON array, or a string holding an encoded array.
	TypeList ParamType = "list"
	// TypeObject accepts a JSON object, or a string holding an encoded object.
	TypeObject ParamType = "object"
	// TypeString stringifies the value.
	TypeString ParamType = "string"
	// TypeAny passes the value through untouched. Used for parameters whose
	// shape varies by call, such as a recipient that may be a string or a list.
	TypeAny ParamType = "any"
)

// ParamSpec declares one parameter of an action: its name, the type it is
// coerced to, and whether the handler requires it (no default of its own).
type ParamSpec struct {
	Name     string
	Type     ParamType
	Required bool
}

// ActionFunc is the handler shape for actions that make no authenticated
// remote call and therefore receive no auth context.
type ActionFunc func(ctx context.Context, params Params) (any, error)

// AuthActionFunc is the handler shape for actions that call Microsoft Graph.
// The executor injects a fresh AuthContext per invocation; handlers never
// fetch tokens themselves.
type AuthActionFunc func(ctx context.Context, auth AuthContext, params Params) (any, error)

// Action describes one registered action: its unique name, parameter schema
// and handler. Descriptors are created once at startup and never mutated.
type Action struct {
	Name        string
	Category    string
	Description string
	Params      []ParamSpec

	// Handler is an ActionFunc or an AuthActionFunc. The registry rejects
	// any other shape at registration time.
	Handler any
}

// Binary is a raw byte result from an action, such as a file download.
// The entry point writes it to the client unmodified.
type Binary struct {
	Content     []byte
	ContentType string
}
