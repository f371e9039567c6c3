// Package meta registers introspection actions that need no Graph access.
package meta

import (
	"context"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
	"github.com/custodia-labs/graph-actions/internal/core/services"
)

// Actions holds the introspection action handlers.
type Actions struct {
	registry *services.ActionRegistry
	version  string
}

// New creates the meta actions over the registry they describe.
func New(registry *services.ActionRegistry, version string) *Actions {
	return &Actions{registry: registry, version: version}
}

// Register adds the introspection actions to the registry.
func (a *Actions) Register(reg *services.ActionRegistry) error {
	actions := []domain.Action{
		{
			Name:        "acciones_listar",
			Category:    "meta",
			Description: "List the names of every registered action",
			Handler:     domain.ActionFunc(a.listActions),
		},
		{
			Name:        "version",
			Category:    "meta",
			Description: "Report the service version",
			Handler:     domain.ActionFunc(a.serviceVersion),
		},
	}

	for _, action := range actions {
		if err := reg.Register(action); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actions) listActions(ctx context.Context, p domain.Params) (any, error) {
	names := a.registry.Names()
	return map[string]any{
		"acciones": names,
		"total":    len(names),
	}, nil
}

func (a *Actions) serviceVersion(ctx context.Context, p domain.Params) (any, error) {
	return map[string]any{"version": a.version}, nil
}
