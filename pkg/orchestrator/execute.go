package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/pkg/executor"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// WithIdempotencyCache attaches an optional Redis-backed idempotency
// cache; every subsequent ExecuteApprovedActions call claims each
// action ID before running it and skips any action another caller
// already claimed.
func (o *Orchestrator) WithIdempotencyCache(cache *IdempotencyCache) *Orchestrator {
	o.idempotency = cache
	return o
}

// ExecuteApprovedActions runs every action on the incident that has
// been approved and not yet executed (stage 6).
func (o *Orchestrator) ExecuteApprovedActions(ctx context.Context, incident *types.Incident) ([]*types.Action, error) {
	ctx, span := tracer.Start(ctx, "orchestrator.ExecuteApprovedActions")
	defer span.End()

	incident.Status = types.IncidentExecuting
	var executed []*types.Action

	for i := range incident.Actions {
		action := &incident.Actions[i]
		if action.Approved != types.ApprovalApproved || action.ExecutedAt != nil {
			continue
		}

		if o.idempotency != nil {
			claimed, err := o.idempotency.ClaimExecution(ctx, action.ID)
			if err != nil {
				o.logger.Warn("idempotency claim failed, executing anyway", zap.Error(err))
			} else if !claimed {
				o.logger.Info("skipping action already claimed by another caller", zap.String("action_id", action.ID))
				continue
			}
		}

		result := o.executeSingleAction(ctx, action)
		executed = append(executed, action)

		status := "success"
		if action.Error != "" {
			status = "failed"
		}
		addTimeline(incident, "executed", fmt.Sprintf("Executed: %s — %s", action.Description, status), "", result)
	}

	return executed, nil
}

func (o *Orchestrator) executeSingleAction(ctx context.Context, action *types.Action) map[string]interface{} {
	now := time.Now()

	if action.Integration == "" || action.Method == "" {
		action.ExecutedAt = &now
		action.Result = map[string]interface{}{"status": "skipped", "reason": "No integration/method specified"}
		return action.Result
	}

	category := types.IntegrationCategory(action.Integration)
	provider, err := o.registry.GetProvider(ctx, category)
	if err != nil {
		action.ExecutedAt = &now
		action.Error = err.Error()
		return map[string]interface{}{"status": "error", "error": action.Error}
	}

	raw, err := o.registry.Call(category, func() (interface{}, error) {
		return executor.Invoke(ctx, category, provider, action.Method, action.Params)
	})
	action.ExecutedAt = &now
	if err != nil {
		action.Error = err.Error()
		return map[string]interface{}{"status": "error", "error": action.Error}
	}

	action.Result = executor.CoerceToDict(raw)
	return action.Result
}
