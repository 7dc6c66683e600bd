package runbook

import (
	"fmt"

	"github.com/jordigilh/runbookengine/internal/apperrors"
	"github.com/jordigilh/runbookengine/pkg/types"
)

var validActions = map[types.RunbookStepAction]bool{
	types.StepActionGather:     true,
	types.StepActionExecute:    true,
	types.StepActionMLDecision: true,
}

// validateStep checks a single step's fields in isolation, without
// regard to its position in the runbook.
func validateStep(path string, step types.RunbookStep) error {
	if step.ID == "" {
		return apperrors.NewRunbookParseError(path, "step is missing an id")
	}
	if !validActions[step.Action] {
		return apperrors.NewRunbookParseError(path, fmt.Sprintf("step %q: invalid action %q", step.ID, step.Action))
	}

	switch step.Action {
	case types.StepActionGather, types.StepActionExecute:
		if step.Integration == "" || step.Method == "" {
			return apperrors.NewRunbookParseError(path, fmt.Sprintf("step %q: %s steps require integration and method", step.ID, step.Action))
		}
		methods, ok := types.ValidMethods[types.IntegrationCategory(step.Integration)]
		if !ok {
			return apperrors.NewRunbookParseError(path, fmt.Sprintf("step %q: unknown integration %q", step.ID, step.Integration))
		}
		if !methods[step.Method] {
			return apperrors.NewRunbookParseError(path, fmt.Sprintf("step %q: method %q is not valid for integration %q", step.ID, step.Method, step.Integration))
		}
	case types.StepActionMLDecision:
		// ml_decision steps dispatch to the ML engine, not a provider;
		// integration/method are meaningless here.
	}

	return nil
}

// Validate checks a fully-parsed runbook: every step individually, plus
// cross-step invariants the parser can't catch step-by-step — duplicate
// IDs and dangling context references.
func Validate(rb *types.Runbook) error {
	if rb.Name == "" {
		return apperrors.NewRunbookParseError(rb.SourcePath, "runbook is missing a name")
	}
	if len(rb.Steps) == 0 {
		return apperrors.NewRunbookParseError(rb.SourcePath, "runbook has no steps")
	}

	seen := make(map[string]bool, len(rb.Steps))
	for _, step := range rb.Steps {
		if err := validateStep(rb.SourcePath, step); err != nil {
			return err
		}
		if seen[step.ID] {
			return apperrors.NewRunbookParseError(rb.SourcePath, fmt.Sprintf("duplicate step id %q", step.ID))
		}
		seen[step.ID] = true
	}

	for _, step := range rb.Steps {
		for _, ref := range step.Context {
			if !seen[ref] {
				return apperrors.NewRunbookParseError(rb.SourcePath, fmt.Sprintf("step %q references unknown context step %q", step.ID, ref))
			}
		}
	}

	return nil
}
