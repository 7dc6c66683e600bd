package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// Verify re-queries the monitoring provider to check whether the
// problem is resolved, using active alert count as the resolution
// heuristic: zero active alerts means resolved (stage 7).
func (o *Orchestrator) Verify(ctx context.Context, incident *types.Incident, attempt int) types.VerificationResult {
	ctx, span := tracer.Start(ctx, "orchestrator.Verify")
	defer span.End()

	incident.Status = types.IncidentVerifying
	addTimeline(incident, "verifying", fmt.Sprintf("Verification attempt %d", attempt), "", nil)

	monitoring, err := o.monitoringProvider(ctx)
	if err != nil {
		return o.verifyError(incident, attempt, err)
	}
	alerts, err := monitoring.GetCurrentAlerts(ctx, map[string]interface{}{})
	if err != nil {
		return o.verifyError(incident, attempt, err)
	}

	active, cleared := 0, 0
	for _, a := range alerts {
		if a.Status == "triggered" {
			active++
		} else {
			cleared++
		}
	}
	resolved := active == 0

	result := types.VerificationResult{
		Resolved:          resolved,
		ActiveAlertCount:  active,
		ClearedAlertCount: cleared,
		Attempts:          attempt,
		Detail:            "No active alerts",
	}
	if !resolved {
		result.Detail = fmt.Sprintf("%d alerts still firing", active)
	}

	if resolved {
		now := time.Now()
		incident.Status = types.IncidentResolved
		incident.ResolvedAt = &now
		addTimeline(incident, "resolved", "Verification passed — no active alerts", "", nil)
	} else {
		addTimeline(incident, "verification_failed", fmt.Sprintf("Attempt %d: %d alerts still active", attempt, active), "", nil)
	}
	return result
}

func (o *Orchestrator) verifyError(incident *types.Incident, attempt int, err error) types.VerificationResult {
	o.logger.Warn("verification error", zap.Error(err))
	addTimeline(incident, "verification_error", fmt.Sprintf("Verification error: %s", err.Error()), "", nil)
	return types.VerificationResult{Resolved: false, Attempts: attempt, Detail: fmt.Sprintf("Verification error: %s", err.Error())}
}

// VerifyWithRetry retries Verify up to maxAttempts times, sleeping
// interval between attempts, stopping early at the first resolved
// result. It respects context cancellation during the sleep.
func (o *Orchestrator) VerifyWithRetry(ctx context.Context, incident *types.Incident, maxAttempts int, interval time.Duration) types.VerificationResult {
	result := types.VerificationResult{Resolved: false}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return result
			case <-time.After(interval):
			}
		}
		result = o.Verify(ctx, incident, attempt)
		if o.metrics != nil {
			o.metrics.VerificationRounds.Observe(float64(attempt))
		}
		if result.Resolved {
			break
		}
	}
	return result
}
