package executor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordigilh/runbookengine/pkg/executor"
	"github.com/jordigilh/runbookengine/pkg/integration/mock"
	"github.com/jordigilh/runbookengine/pkg/metrics"
	"github.com/jordigilh/runbookengine/pkg/types"
)

type fakeRegistry struct {
	monitoring types.MonitoringProvider
	compute    types.ComputeProvider
	err        error
}

func (r *fakeRegistry) GetProvider(ctx context.Context, category types.IntegrationCategory) (interface{}, error) {
	if r.err != nil {
		return nil, r.err
	}
	switch category {
	case types.CatMonitoring:
		return r.monitoring, nil
	case types.CatCompute:
		return r.compute, nil
	default:
		return nil, nil
	}
}

type fakeML struct {
	result types.DiagnosticResult
	err    error
}

func (f *fakeML) Diagnose(ctx context.Context, description string, findings []types.Finding) (types.DiagnosticResult, error) {
	return f.result, f.err
}

func testIncident() *types.Incident {
	return &types.Incident{ID: "INC-test0001", Description: "web tier is slow"}
}

func TestExecuteStep_GatherSuccess(t *testing.T) {
	reg := &fakeRegistry{monitoring: mock.NewDatadog("high_cpu", false)}
	ex := executor.New(reg, &fakeML{}, metrics.Noop())

	step := types.RunbookStep{ID: "gather_alerts", Action: types.StepActionGather, Integration: "monitoring", Method: "get_current_alerts"}
	result := ex.ExecuteStep(context.Background(), step, testIncident(), map[string]interface{}{})

	assert.Equal(t, types.StepSuccess, result.Status)
	assert.Contains(t, result.Result, "items")
}

func TestExecuteStep_ProviderNotFoundFails(t *testing.T) {
	reg := &fakeRegistry{err: assert.AnError}
	ex := executor.New(reg, &fakeML{}, metrics.Noop())

	step := types.RunbookStep{ID: "gather_alerts", Action: types.StepActionGather, Integration: "monitoring", Method: "get_current_alerts"}
	result := ex.ExecuteStep(context.Background(), step, testIncident(), map[string]interface{}{})

	assert.Equal(t, types.StepFailed, result.Status)
	assert.Contains(t, result.Error, "provider not found")
}

func TestExecuteStep_UnknownMethodFails(t *testing.T) {
	reg := &fakeRegistry{monitoring: mock.NewDatadog("high_cpu", false)}
	ex := executor.New(reg, &fakeML{}, metrics.Noop())

	step := types.RunbookStep{ID: "s1", Action: types.StepActionGather, Integration: "monitoring", Method: "delete_everything"}
	result := ex.ExecuteStep(context.Background(), step, testIncident(), map[string]interface{}{})

	assert.Equal(t, types.StepFailed, result.Status)
}

func TestExecuteStep_MLDecisionBuildsFindingsFromContext(t *testing.T) {
	ml := &fakeML{result: types.DiagnosticResult{RootCause: "cpu exhaustion", Confidence: 0.9}}
	ex := executor.New(&fakeRegistry{}, ml, metrics.Noop())

	step := types.RunbookStep{ID: "diagnose", Action: types.StepActionMLDecision, Context: []string{"gather_alerts"}}
	stepResults := map[string]interface{}{"gather_alerts": map[string]interface{}{"count": 3}}

	result := ex.ExecuteStep(context.Background(), step, testIncident(), stepResults)
	require.Equal(t, types.StepSuccess, result.Status)
	assert.Equal(t, "cpu exhaustion", result.Result["root_cause"])
}

func TestExecuteRunbook_CompletesAllUnapprovedSteps(t *testing.T) {
	reg := &fakeRegistry{monitoring: mock.NewDatadog("high_cpu", false)}
	ex := executor.New(reg, &fakeML{}, metrics.Noop())

	rb := &types.Runbook{
		Name: "test",
		Steps: []types.RunbookStep{
			{ID: "s1", Action: types.StepActionGather, Integration: "monitoring", Method: "get_current_alerts"},
			{ID: "s2", Action: types.StepActionGather, Integration: "monitoring", Method: "get_logs"},
		},
	}

	execution := ex.ExecuteRunbook(context.Background(), rb, testIncident(), nil)
	assert.Equal(t, types.ExecutionCompleted, execution.Status)
	assert.Len(t, execution.StepResults, 2)
	assert.NotNil(t, execution.CompletedAt)
}

func TestExecuteRunbook_PausesAtApprovalGateAndBlocksSubsequentSteps(t *testing.T) {
	reg := &fakeRegistry{monitoring: mock.NewDatadog("high_cpu", false), compute: mock.NewAWS("high_cpu", false)}
	ex := executor.New(reg, &fakeML{}, metrics.Noop())

	rb := &types.Runbook{
		Name: "test",
		Steps: []types.RunbookStep{
			{ID: "s1", Action: types.StepActionGather, Integration: "monitoring", Method: "get_current_alerts"},
			{ID: "s2", Action: types.StepActionExecute, Integration: "compute", Method: "restart_service", RequiresApproval: true},
			{ID: "s3", Action: types.StepActionGather, Integration: "monitoring", Method: "get_logs"},
		},
	}

	execution := ex.ExecuteRunbook(context.Background(), rb, testIncident(), nil)
	assert.Equal(t, types.ExecutionAwaitingApproval, execution.Status)
	assert.Equal(t, types.StepSuccess, execution.StepResults["s1"].Status)
	assert.Equal(t, types.StepPendingApproval, execution.StepResults["s2"].Status)
	assert.Equal(t, types.StepPending, execution.StepResults["s3"].Status)
	assert.Contains(t, execution.PendingApprovalSteps, "s2")
}

func TestResumeRunbook_ContinuesFromApprovedStep(t *testing.T) {
	reg := &fakeRegistry{monitoring: mock.NewDatadog("high_cpu", false), compute: mock.NewAWS("high_cpu", false)}
	ex := executor.New(reg, &fakeML{}, metrics.Noop())

	rb := &types.Runbook{
		Name: "test",
		Steps: []types.RunbookStep{
			{ID: "s1", Action: types.StepActionGather, Integration: "monitoring", Method: "get_current_alerts"},
			{ID: "s2", Action: types.StepActionExecute, Integration: "compute", Method: "restart_service", RequiresApproval: true, Params: map[string]interface{}{"hostname": "prod-web-01", "service": "nginx"}},
		},
	}

	incident := testIncident()
	execution := ex.ExecuteRunbook(context.Background(), rb, incident, nil)
	require.Equal(t, types.ExecutionAwaitingApproval, execution.Status)

	resumed := ex.ResumeRunbook(context.Background(), rb, incident, execution, []string{"s2"})
	assert.Equal(t, types.ExecutionCompleted, resumed.Status)
	assert.Equal(t, types.StepSuccess, resumed.StepResults["s2"].Status)
	assert.Empty(t, resumed.PendingApprovalSteps)
}

func TestResumeRunbook_NoopUnlessAwaitingApproval(t *testing.T) {
	ex := executor.New(&fakeRegistry{}, &fakeML{}, metrics.Noop())
	execution := &types.RunbookExecution{Status: types.ExecutionCompleted}

	resumed := ex.ResumeRunbook(context.Background(), &types.Runbook{}, testIncident(), execution, []string{"s1"})
	assert.Equal(t, types.ExecutionCompleted, resumed.Status)
}

func TestRunSteps_FailedGatherStepIsNonFatal(t *testing.T) {
	reg := &fakeRegistry{monitoring: mock.NewDatadog("high_cpu", false)}
	ex := executor.New(reg, &fakeML{}, metrics.Noop())

	rb := &types.Runbook{
		Name: "test",
		Steps: []types.RunbookStep{
			{ID: "bad", Action: types.StepActionGather, Integration: "monitoring", Method: "get_current_alerts", Params: map[string]interface{}{}},
			{ID: "ok", Action: types.StepActionGather, Integration: "monitoring", Method: "get_logs"},
		},
	}
	// force a failure on the first step by pointing it at an integration
	// whose provider isn't wired in this fake registry
	rb.Steps[0].Integration = "alerting"
	rb.Steps[0].Method = "get_active_incidents"

	execution := ex.ExecuteRunbook(context.Background(), rb, testIncident(), nil)
	assert.Equal(t, types.ExecutionCompleted, execution.Status)
	assert.Equal(t, types.StepFailed, execution.StepResults["bad"].Status)
	assert.Equal(t, types.StepSuccess, execution.StepResults["ok"].Status)
}

func TestRunSteps_FailedExecuteStepIsFatal(t *testing.T) {
	reg := &fakeRegistry{monitoring: mock.NewDatadog("high_cpu", false)}
	ex := executor.New(reg, &fakeML{}, metrics.Noop())

	rb := &types.Runbook{
		Name: "test",
		Steps: []types.RunbookStep{
			{ID: "restart", Action: types.StepActionExecute, Integration: "compute", Method: "restart_service"},
			{ID: "after", Action: types.StepActionGather, Integration: "monitoring", Method: "get_logs"},
		},
	}

	execution := ex.ExecuteRunbook(context.Background(), rb, testIncident(), nil)
	assert.Equal(t, types.ExecutionFailed, execution.Status)
	assert.Equal(t, types.StepFailed, execution.StepResults["restart"].Status)
	_, ranAfter := execution.StepResults["after"]
	assert.False(t, ranAfter)
}
