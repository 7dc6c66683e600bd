package orchestrator

import (
	"fmt"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// GetPendingApprovals returns the actions that require human approval
// and haven't been decided yet (stage 5).
func (o *Orchestrator) GetPendingApprovals(incident *types.Incident) []*types.Action {
	return o.evaluator.PendingApprovals(incident.Actions)
}

// ApproveAction records an approval for a specific action. Supports
// multi-approver policies: the action's Approved state only flips to
// ApprovalApproved once the policy threshold is met. Returns the
// action, or nil if actionID doesn't match anything on the incident.
func (o *Orchestrator) ApproveAction(incident *types.Incident, actionID, approvedBy string) *types.Action {
	action := incident.FindAction(actionID)
	if action == nil {
		return nil
	}

	nowApproved := o.evaluator.AddApproval(action, approvedBy)

	eventType := "approval_recorded"
	summary := fmt.Sprintf("Approval recorded (%d of %d needed): %s", len(action.Approvals), o.evaluator.MinimumApprovals(action), action.Description)
	if nowApproved {
		eventType = "approved"
		summary = fmt.Sprintf("Action fully approved: %s", action.Description)
	}

	addTimeline(incident, eventType, summary, "", map[string]interface{}{
		"action_id":   actionID,
		"approved_by": approvedBy,
		"approvals":   action.Approvals,
	})
	return action
}

// RejectAction rejects a specific action.
func (o *Orchestrator) RejectAction(incident *types.Incident, actionID, rejectedBy string) *types.Action {
	action := incident.FindAction(actionID)
	if action == nil {
		return nil
	}
	o.evaluator.Reject(action, rejectedBy)
	addTimeline(incident, "rejected", fmt.Sprintf("Action rejected: %s", action.Description), "", map[string]interface{}{
		"action_id":   actionID,
		"rejected_by": rejectedBy,
	})
	return action
}

// AutoApproveLowRisk auto-approves every action the policy does not
// require human approval for.
func (o *Orchestrator) AutoApproveLowRisk(incident *types.Incident) []*types.Action {
	autoApproved := o.evaluator.ApplyAutoApprovals(incident.Actions)
	for _, action := range autoApproved {
		addTimeline(incident, "auto_approved", fmt.Sprintf("Auto-approved (policy: auto): %s", action.Description), "", nil)
	}
	return autoApproved
}
