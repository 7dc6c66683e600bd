package orchestrator

import (
	"context"
	"time"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// RunDiagnosis chains create+classify, gather, diagnose, recommend, and
// auto-approval of low-risk actions into a single call — everything up
// to the point a human needs to look at the pending approvals.
func (o *Orchestrator) RunDiagnosis(ctx context.Context, problemDescription string) (*types.Incident, error) {
	incident, err := o.CreateIncident(ctx, problemDescription)
	if err != nil {
		return incident, err
	}

	if _, err := o.GatherContext(ctx, incident); err != nil {
		return incident, err
	}

	diagnosis, err := o.Diagnose(ctx, incident)
	if err != nil {
		return incident, err
	}

	if _, err := o.Recommend(ctx, incident, diagnosis); err != nil {
		return incident, err
	}

	o.AutoApproveLowRisk(incident)
	return incident, nil
}

// RunFullWorkflow runs the entire incident lifecycle end to end: diagnosis,
// execution of whatever actions are approved (including any auto-approved
// by RunDiagnosis), retrying verification, and a final summary. It is the
// "no human in the loop" convenience path — callers that need a human
// approval gate should drive RunDiagnosis, ExecuteApprovedActions, and
// VerifyWithRetry separately instead.
func (o *Orchestrator) RunFullWorkflow(ctx context.Context, problemDescription string, maxVerifyAttempts int, verifyInterval time.Duration) (*types.Incident, types.VerificationResult, error) {
	incident, err := o.RunDiagnosis(ctx, problemDescription)
	if err != nil {
		return incident, types.VerificationResult{}, err
	}

	if _, err := o.ExecuteApprovedActions(ctx, incident); err != nil {
		return incident, types.VerificationResult{}, err
	}

	result := o.VerifyWithRetry(ctx, incident, maxVerifyAttempts, verifyInterval)

	if _, err := o.Summarize(ctx, incident); err != nil {
		return incident, result, err
	}

	return incident, result, nil
}
