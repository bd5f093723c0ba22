package engine

import (
	"context"

	"github.com/chazu/spaceship/pkg/graph"
)

// Check runs both graph validation tiers and reports blocking findings as
// EvalErrors and advisory ones as EvalWarnings. Neither carries a source
// line; graph nodes do not record where they were defined.
func Check(g *graph.DesignGraph) ([]EvalError, []EvalWarning) {
	if g == nil {
		return nil, nil
	}
	result := graph.ValidateAll(g)

	var errs []EvalError
	for _, e := range result.Errors {
		errs = append(errs, EvalError{Message: e.Error()})
	}
	var warnings []EvalWarning
	for _, w := range result.Warnings {
		warnings = append(warnings, EvalWarning{Message: w.Message, NodeID: w.NodeID})
	}
	return errs, warnings
}

// EvaluateChecked evaluates source and validates the resulting graph.
// Result.Graph is nil whenever Result.Errors is non-empty. The error return
// is reserved for fatal failures, as with Evaluate.
func (e *Engine) EvaluateChecked(source string) (EvalResult, error) {
	return e.EvaluateCheckedContext(context.Background(), source)
}

// EvaluateCheckedContext is EvaluateChecked that also gives up when ctx is
// done.
func (e *Engine) EvaluateCheckedContext(ctx context.Context, source string) (EvalResult, error) {
	g, evalErrs, err := e.EvaluateContext(ctx, source)
	if err != nil {
		return EvalResult{}, err
	}
	if len(evalErrs) > 0 {
		return EvalResult{Errors: evalErrs}, nil
	}

	errs, warnings := Check(g)
	if len(errs) > 0 {
		return EvalResult{Errors: errs, Warnings: warnings}, nil
	}
	return EvalResult{Graph: g, Warnings: warnings}, nil
}
