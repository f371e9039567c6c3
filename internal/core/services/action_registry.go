package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
)

// ActionRegistry maps action names to their descriptors. It is populated
// once at startup by the catalog builder and treated as immutable afterwards.
type ActionRegistry struct {
	mu      sync.RWMutex
	actions map[string]domain.Action
}

// NewActionRegistry creates an empty registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{actions: make(map[string]domain.Action)}
}

// Register adds an action descriptor. It fails on a duplicate name rather
// than overwriting: a collision means two catalog modules disagree about who
// owns the name, which must surface at startup, not at request time.
func (r *ActionRegistry) Register(action domain.Action) error {
	if action.Name == "" {
		return fmt.Errorf("action name is required")
	}
	switch action.Handler.(type) {
	case domain.ActionFunc, domain.AuthActionFunc:
	default:
		return fmt.Errorf("action %q: handler must be an ActionFunc or AuthActionFunc, got %T",
			action.Name, action.Handler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[action.Name]; exists {
		return fmt.Errorf("action %q already registered", action.Name)
	}
	r.actions[action.Name] = action
	return nil
}

// Resolve returns the descriptor for name. Unknown names return an
// UnknownActionError carrying the full registered-action list.
func (r *ActionRegistry) Resolve(name string) (*domain.Action, error) {
	r.mu.RLock()
	action, ok := r.actions[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &domain.UnknownActionError{Name: name, Known: r.Names()}
	}
	return &action, nil
}

// Names returns all registered action names, sorted.
func (r *ActionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered actions.
func (r *ActionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
