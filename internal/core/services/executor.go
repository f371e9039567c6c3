package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
)

// ExecuteAction binds the coerced parameters against the action's schema and
// invokes its handler. The auth context is injected only for handlers whose
// shape declares it; callers never branch on handler shape. Handler failures
// are wrapped once as ExecutionError preserving the cause. No retries.
func ExecuteAction(ctx context.Context, action *domain.Action, params domain.Params, auth domain.AuthContext) (any, error) {
	var missing []string
	for _, spec := range action.Params {
		if spec.Required && !params.Has(spec.Name) {
			missing = append(missing, spec.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.BindingError{Action: action.Name, Missing: missing}
	}

	var result any
	var err error
	switch handler := action.Handler.(type) {
	case domain.AuthActionFunc:
		result, err = handler(ctx, auth, params)
	case domain.ActionFunc:
		result, err = handler(ctx, params)
	default:
		// The registry validates handler shapes; reaching this means the
		// descriptor was built outside Register.
		return nil, fmt.Errorf("action %q has unsupported handler type %T", action.Name, action.Handler)
	}
	if err != nil {
		return nil, &domain.ExecutionError{Action: action.Name, Err: err}
	}
	return result, nil
}
