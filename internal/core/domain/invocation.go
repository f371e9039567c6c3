package domain

import "time"

// InvocationRequest is the body of an inbound request: the action name and
// its raw, untyped parameters. The Spanish field names are the wire contract
// existing clients depend on.
type InvocationRequest struct {
	Accion     string         `json:"accion"`
	Parametros map[string]any `json:"parametros"`
}

// Invocation outcomes recorded in the audit store.
const (
	OutcomeOK         = "ok"
	OutcomeBadRequest = "bad_request"
	OutcomeError      = "error"
)

// InvocationRecord is one audit row describing a completed request.
type InvocationRecord struct {
	ID        string
	Action    string
	Outcome   string
	ErrorKind string
	Duration  time.Duration
	CreatedAt time.Time
}
