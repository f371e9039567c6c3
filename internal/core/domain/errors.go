package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across the dispatch pipeline.
var (
	// ErrMissingAction indicates the request body had no "accion" field.
	ErrMissingAction = errors.New("parameter 'accion' is required")

	// ErrNoActions indicates the registry ended up empty at startup.
	ErrNoActions = errors.New("no actions registered")

	// ErrNoAuthorization indicates an outbound Graph call was attempted
	// without a bearer token. Such calls fail fast rather than going out
	// unauthenticated.
	ErrNoAuthorization = errors.New("outbound request without authorization")

	// ErrInvalidArgument marks handler-side validation failures (a malformed
	// recipient, an empty required payload). The entry point maps execution
	// errors wrapping it to 400 instead of 500.
	ErrInvalidArgument = errors.New("invalid argument")
)

// UnknownActionError is returned when a requested action name is not
// registered. Known carries the complete registered-action list so clients
// can correct themselves.
type UnknownActionError struct {
	Name  string
	Known []string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q; valid actions are: %s",
		e.Name, strings.Join(e.Known, ", "))
}

// ParameterTypeError is returned when a raw parameter value cannot be
// converted to its declared type. It always names the parameter.
type ParameterTypeError struct {
	Param string
	Value any
	Want  ParamType
}

func (e *ParameterTypeError) Error() string {
	return fmt.Sprintf("parameter %q: cannot convert %v to %s", e.Param, e.Value, e.Want)
}

// UnsupportedTypeError is returned when an action declares a parameter type
// the coercer does not know. This is a configuration bug, not a client error.
type UnsupportedTypeError struct {
	Param string
	Type  ParamType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("parameter %q declares unsupported type %q", e.Param, e.Type)
}

// BindingError is returned before invocation when required parameters are
// missing, so a nil never propagates silently into a remote call.
type BindingError struct {
	Action  string
	Missing []string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("action %q: missing required parameters: %s",
		e.Action, strings.Join(e.Missing, ", "))
}

// AuthenticationError indicates token acquisition failed. Status and Body
// carry the identity provider's response for server-side diagnostics; they
// are never returned to clients.
type AuthenticationError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("token request failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("token request failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ExecutionError wraps a handler failure, preserving the cause for logging.
// The client sees only a generic message naming the action.
type ExecutionError struct {
	Action string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("action %q failed: %v", e.Action, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
