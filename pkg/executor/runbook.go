package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// ExecuteRunbook starts a fresh RunbookExecution for rb against incident
// and runs it to completion, to its first approval gate, or to its
// first fatal failure, whichever comes first.
func (e *Executor) ExecuteRunbook(ctx context.Context, rb *types.Runbook, incident *types.Incident, preApprovedSteps []string) *types.RunbookExecution {
	execution := &types.RunbookExecution{
		ID:          types.NewExecutionID(),
		RunbookName: rb.Name,
		IncidentID:  incident.ID,
		Status:      types.ExecutionRunning,
		StepResults: map[string]types.StepResult{},
		Results:     map[string]interface{}{},
		StartedAt:   time.Now(),
	}

	approved := toSet(preApprovedSteps)
	e.runSteps(ctx, rb, incident, execution, approved, 0)
	return execution
}

// ResumeRunbook continues a paused execution after some of its pending
// steps have been approved. It is a no-op unless the execution is
// currently AwaitingApproval. The resume index is the first step whose
// recorded status is not Success, so any step that already completed
// (or failed non-fatally as a gather step) is not re-run.
func (e *Executor) ResumeRunbook(ctx context.Context, rb *types.Runbook, incident *types.Incident, execution *types.RunbookExecution, approvedStepIDs []string) *types.RunbookExecution {
	if execution.Status != types.ExecutionAwaitingApproval {
		return execution
	}

	execution.Status = types.ExecutionRunning
	execution.PendingApprovalSteps = nil

	approved := toSet(approvedStepIDs)
	accumulated := execution.Results
	if accumulated == nil {
		accumulated = map[string]interface{}{}
	}

	startIndex := 0
	for i, step := range rb.Steps {
		if sr, ok := execution.StepResults[step.ID]; ok && sr.Status == types.StepSuccess {
			continue
		}
		startIndex = i
		break
	}

	e.runStepsFrom(ctx, rb, incident, execution, accumulated, approved, startIndex)
	return execution
}

func (e *Executor) runSteps(ctx context.Context, rb *types.Runbook, incident *types.Incident, execution *types.RunbookExecution, approved map[string]bool, startIndex int) {
	e.runStepsFrom(ctx, rb, incident, execution, execution.Results, approved, startIndex)
}

// runStepsFrom is the core execution loop: walk steps from startIndex,
// pausing at the first unapproved gated step and blocking every step
// after it, executing everything else, and treating a failed gather
// step as non-fatal but a failed execute/ml_decision step as fatal.
func (e *Executor) runStepsFrom(ctx context.Context, rb *types.Runbook, incident *types.Incident, execution *types.RunbookExecution, accumulated map[string]interface{}, approved map[string]bool, startIndex int) {
	for i := startIndex; i < len(rb.Steps); i++ {
		step := rb.Steps[i]

		if step.RequiresApproval && !approved[step.ID] {
			execution.StepResults[step.ID] = types.StepResult{
				StepID:        step.ID,
				Status:        types.StepPendingApproval,
				SkippedReason: "Awaiting operator approval",
			}
			appendPendingApproval(execution, step.ID)

			for j := i + 1; j < len(rb.Steps); j++ {
				blocked := rb.Steps[j]
				if _, already := execution.StepResults[blocked.ID]; !already {
					execution.StepResults[blocked.ID] = types.StepResult{
						StepID:        blocked.ID,
						Status:        types.StepPending,
						SkippedReason: "Blocked by unapproved step",
					}
				}
				if blocked.RequiresApproval {
					appendPendingApproval(execution, blocked.ID)
				}
			}

			execution.Status = types.ExecutionAwaitingApproval
			execution.Results = accumulated
			return
		}

		result := e.ExecuteStep(ctx, step, incident, accumulated)
		execution.StepResults[step.ID] = result
		appendTimeline(incident, step, result)

		switch {
		case result.Status == types.StepSuccess:
			accumulated[step.ID] = result.Result

		case result.Status == types.StepFailed && step.Action == types.StepActionGather:
			// Non-fatal: a gather step is best-effort evidence collection,
			// not a precondition for the rest of the runbook.
			accumulated[step.ID] = map[string]interface{}{}

		case result.Status == types.StepFailed:
			now := time.Now()
			execution.Status = types.ExecutionFailed
			execution.CompletedAt = &now
			execution.Results = accumulated
			return
		}
	}

	now := time.Now()
	execution.Status = types.ExecutionCompleted
	execution.CompletedAt = &now
	execution.Results = accumulated
}

func appendPendingApproval(execution *types.RunbookExecution, stepID string) {
	for _, id := range execution.PendingApprovalSteps {
		if id == stepID {
			return
		}
	}
	execution.PendingApprovalSteps = append(execution.PendingApprovalSteps, stepID)
}

func appendTimeline(incident *types.Incident, step types.RunbookStep, result types.StepResult) {
	eventType := "runbook_step_success"
	marker := "✓"
	if result.Status != types.StepSuccess {
		eventType = "runbook_step_failed"
		marker = "✗"
	}

	details := map[string]interface{}{
		"step_id":     step.ID,
		"integration": step.Integration,
		"method":      step.Method,
	}
	if result.Error != "" {
		details["error"] = result.Error
	}

	incident.Timeline = append(incident.Timeline, types.TimelineEntry{
		Timestamp: time.Now(),
		EventType: eventType,
		Summary:   fmt.Sprintf("%s [%s] %s", marker, step.Action, step.Description),
		Source:    "runbook_engine",
		Details:   details,
	})
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
