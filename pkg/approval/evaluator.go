package approval

import "github.com/jordigilh/runbookengine/pkg/types"

// Evaluator evaluates approval state for actions against a configurable
// PolicyBackend. The zero value is not usable; construct with NewEvaluator.
type Evaluator struct {
	policy PolicyBackend
}

// NewEvaluator builds an Evaluator using the given policy backend —
// either the static Policy table or a RegoPolicy.
func NewEvaluator(policy PolicyBackend) *Evaluator {
	return &Evaluator{policy: policy}
}

// NewDefaultEvaluator builds an Evaluator using DefaultPolicy().
func NewDefaultEvaluator() *Evaluator {
	return NewEvaluator(DefaultPolicy())
}

// PolicyFor returns the effective policy for an action: an action that
// doesn't require approval is always auto-approved regardless of its
// risk level.
func (e *Evaluator) PolicyFor(action *types.Action) types.ThresholdPolicy {
	if !action.RequiresApproval {
		return types.PolicyAuto
	}
	return e.policy.For(action.RiskLevel)
}

// MinimumApprovals returns the minimum number of distinct human
// approvals an action needs before it is considered approved.
func (e *Evaluator) MinimumApprovals(action *types.Action) int {
	switch e.PolicyFor(action) {
	case types.PolicyAuto:
		return 0
	case types.PolicyRequireOne:
		return 1
	default:
		return 2
	}
}

// RequiresHumanApproval reports whether an action needs at least one
// human approver.
func (e *Evaluator) RequiresHumanApproval(action *types.Action) bool {
	return e.MinimumApprovals(action) > 0
}

// IsApproved reports whether an action has met its approval threshold.
func (e *Evaluator) IsApproved(action *types.Action) bool {
	needed := e.MinimumApprovals(action)
	if needed == 0 {
		return true
	}
	return len(action.Approvals) >= needed
}

// IsRejected reports whether an action was rejected.
func (e *Evaluator) IsRejected(action *types.Action) bool {
	return action.RejectedBy != ""
}

// AddApproval records a human approval from approver. Duplicate
// approvals from the same person are ignored. Once the threshold is
// met, Action.Approved is set to types.ApprovalApproved. Returns true
// if the action is now fully approved.
func (e *Evaluator) AddApproval(action *types.Action, approver string) bool {
	found := false
	for _, a := range action.Approvals {
		if a == approver {
			found = true
			break
		}
	}
	if !found {
		action.Approvals = append(action.Approvals, approver)
	}
	action.ApprovedBy = action.Approvals[len(action.Approvals)-1]

	if e.IsApproved(action) {
		action.Approved = types.ApprovalApproved
		return true
	}
	return false
}

// Reject records a rejection from rejectedBy, setting Action.Approved
// to types.ApprovalRejected.
func (e *Evaluator) Reject(action *types.Action, rejectedBy string) {
	action.Approved = types.ApprovalRejected
	action.RejectedBy = rejectedBy
}

// ApplyAutoApprovals auto-approves every action in actions that does
// not require human input and has not already been decided. Returns
// the subset of actions that were auto-approved by this call.
func (e *Evaluator) ApplyAutoApprovals(actions []types.Action) []*types.Action {
	var autoApproved []*types.Action
	for i := range actions {
		action := &actions[i]
		if action.Approved != types.ApprovalUndecided {
			continue
		}
		if !e.RequiresHumanApproval(action) {
			action.Approved = types.ApprovalApproved
			action.ApprovedBy = "auto"
			autoApproved = append(autoApproved, action)
		}
	}
	return autoApproved
}

// PendingApprovals returns the actions that require human approval and
// have been neither approved nor rejected yet.
func (e *Evaluator) PendingApprovals(actions []types.Action) []*types.Action {
	var pending []*types.Action
	for i := range actions {
		action := &actions[i]
		if e.RequiresHumanApproval(action) && !e.IsApproved(action) && !e.IsRejected(action) {
			pending = append(pending, action)
		}
	}
	return pending
}
