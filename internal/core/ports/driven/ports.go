// Package driven defines the outbound ports the core services depend on.
package driven

import (
	"context"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
)

// TokenProvider produces a valid bearer token for outbound Graph calls.
// Implementations cache the token and refresh it transparently on expiry.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// AuditStore persists one record per completed invocation. Recording is
// best-effort; a failing store never fails the request it describes.
type AuditStore interface {
	Record(ctx context.Context, rec domain.InvocationRecord) error
	Close() error
}
