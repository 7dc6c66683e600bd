package approval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordigilh/runbookengine/pkg/approval"
	"github.com/jordigilh/runbookengine/pkg/types"
)

func lowRiskAction() *types.Action {
	return &types.Action{ID: "act-1", RequiresApproval: false, RiskLevel: types.RiskLow}
}

func highRiskAction() *types.Action {
	return &types.Action{ID: "act-2", RequiresApproval: true, RiskLevel: types.RiskHigh}
}

func criticalRiskAction() *types.Action {
	return &types.Action{ID: "act-3", RequiresApproval: true, RiskLevel: types.RiskCritical}
}

func TestPolicyFor(t *testing.T) {
	e := approval.NewDefaultEvaluator()

	assert.Equal(t, types.PolicyAuto, e.PolicyFor(lowRiskAction()))
	assert.Equal(t, types.PolicyRequireOne, e.PolicyFor(highRiskAction()))
	assert.Equal(t, types.PolicyRequireTwo, e.PolicyFor(criticalRiskAction()))

	t.Run("requires_approval false is always auto regardless of risk level", func(t *testing.T) {
		action := &types.Action{RequiresApproval: false, RiskLevel: types.RiskCritical}
		assert.Equal(t, types.PolicyAuto, e.PolicyFor(action))
	})
}

func TestMinimumApprovals(t *testing.T) {
	e := approval.NewDefaultEvaluator()

	assert.Equal(t, 0, e.MinimumApprovals(lowRiskAction()))
	assert.Equal(t, 1, e.MinimumApprovals(highRiskAction()))
	assert.Equal(t, 2, e.MinimumApprovals(criticalRiskAction()))
}

func TestIsApproved_AutoPolicyIsAlwaysApproved(t *testing.T) {
	e := approval.NewDefaultEvaluator()
	assert.True(t, e.IsApproved(lowRiskAction()))
}

func TestIsApproved_BelowThreshold(t *testing.T) {
	e := approval.NewDefaultEvaluator()
	action := criticalRiskAction()
	action.Approvals = []string{"alice"}
	assert.False(t, e.IsApproved(action))
}

func TestAddApproval_SingleApproverMeetsRequireOne(t *testing.T) {
	e := approval.NewDefaultEvaluator()
	action := highRiskAction()

	approved := e.AddApproval(action, "alice")
	require.True(t, approved)
	assert.Equal(t, types.ApprovalApproved, action.Approved)
	assert.Equal(t, "alice", action.ApprovedBy)
}

func TestAddApproval_DuplicateApproverIgnored(t *testing.T) {
	e := approval.NewDefaultEvaluator()
	action := criticalRiskAction()

	e.AddApproval(action, "alice")
	approved := e.AddApproval(action, "alice")

	assert.False(t, approved)
	assert.Equal(t, []string{"alice"}, action.Approvals)
}

func TestAddApproval_TwoDistinctApproversMeetsRequireTwo(t *testing.T) {
	e := approval.NewDefaultEvaluator()
	action := criticalRiskAction()

	require.False(t, e.AddApproval(action, "alice"))
	require.True(t, e.AddApproval(action, "bob"))
	assert.Equal(t, types.ApprovalApproved, action.Approved)
	assert.Equal(t, "bob", action.ApprovedBy)
}

func TestReject(t *testing.T) {
	e := approval.NewDefaultEvaluator()
	action := highRiskAction()

	e.Reject(action, "carol")

	assert.Equal(t, types.ApprovalRejected, action.Approved)
	assert.Equal(t, "carol", action.RejectedBy)
	assert.True(t, e.IsRejected(action))
}

func TestApplyAutoApprovals(t *testing.T) {
	e := approval.NewDefaultEvaluator()
	actions := []types.Action{
		*lowRiskAction(),
		*highRiskAction(),
	}

	autoApproved := e.ApplyAutoApprovals(actions)

	require.Len(t, autoApproved, 1)
	assert.Equal(t, "act-1", autoApproved[0].ID)
	assert.Equal(t, types.ApprovalApproved, actions[0].Approved)
	assert.Equal(t, "auto", actions[0].ApprovedBy)
	assert.Equal(t, types.ApprovalUndecided, actions[1].Approved)
}

func TestApplyAutoApprovals_SkipsAlreadyDecided(t *testing.T) {
	e := approval.NewDefaultEvaluator()
	already := lowRiskAction()
	already.Approved = types.ApprovalRejected

	autoApproved := e.ApplyAutoApprovals([]types.Action{*already})
	assert.Empty(t, autoApproved)
}

func TestPendingApprovals(t *testing.T) {
	e := approval.NewDefaultEvaluator()
	pendingHigh := highRiskAction()
	approvedCritical := criticalRiskAction()
	e.AddApproval(approvedCritical, "alice")
	e.AddApproval(approvedCritical, "bob")
	rejected := highRiskAction()
	rejected.ID = "act-4"
	e.Reject(rejected, "carol")

	pending := e.PendingApprovals([]types.Action{*pendingHigh, *approvedCritical, *rejected})

	require.Len(t, pending, 1)
	assert.Equal(t, "act-2", pending[0].ID)
}
