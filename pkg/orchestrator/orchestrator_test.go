package orchestrator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordigilh/runbookengine/pkg/approval"
	"github.com/jordigilh/runbookengine/pkg/metrics"
	"github.com/jordigilh/runbookengine/pkg/orchestrator"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// fakeMonitoring implements types.MonitoringProvider for orchestrator tests.
type fakeMonitoring struct {
	alerts []types.Alert
	err    error
}

func (f *fakeMonitoring) GetCurrentAlerts(ctx context.Context, filters map[string]interface{}) ([]types.Alert, error) {
	return f.alerts, f.err
}
func (f *fakeMonitoring) GetMetrics(ctx context.Context, q types.MetricQuery) (types.MetricTimeSeries, error) {
	return types.MetricTimeSeries{}, nil
}
func (f *fakeMonitoring) GetLogs(ctx context.Context, q types.LogQuery) ([]types.LogEntry, error) {
	return nil, nil
}
func (f *fakeMonitoring) GetHostInfo(ctx context.Context, hostname string) (types.HostInfo, error) {
	return types.HostInfo{Hostname: hostname}, nil
}
func (f *fakeMonitoring) GetTopProcesses(ctx context.Context, hostname string, limit int) ([]types.ProcessInfo, error) {
	return nil, nil
}

// fakeRegistry hands back a single monitoring provider and errors for
// everything else, which is all these tests exercise.
type fakeRegistry struct {
	monitoring types.MonitoringProvider
}

func (f *fakeRegistry) GetProvider(ctx context.Context, category types.IntegrationCategory) (interface{}, error) {
	if category == types.CatMonitoring && f.monitoring != nil {
		return f.monitoring, nil
	}
	return nil, errors.New("no provider configured for " + string(category))
}

// Call skips the real breaker: these tests exercise orchestrator logic,
// not circuit-breaking behavior, which pkg/integration covers directly.
func (f *fakeRegistry) Call(category types.IntegrationCategory, fn func() (interface{}, error)) (interface{}, error) {
	return fn()
}

// fakeML implements types.MLEngine with caller-controlled canned responses.
type fakeML struct {
	classification types.Classification
	diagnosis      types.DiagnosticResult
	recSet         types.RecommendationSet
	summary        string
	err            error
}

func (f *fakeML) Classify(ctx context.Context, description string) (types.Classification, error) {
	return f.classification, f.err
}
func (f *fakeML) Diagnose(ctx context.Context, description string, findings []types.Finding) (types.DiagnosticResult, error) {
	return f.diagnosis, f.err
}
func (f *fakeML) Recommend(ctx context.Context, description string, diagnosis types.DiagnosticResult, findings []types.Finding) (types.RecommendationSet, error) {
	return f.recSet, f.err
}
func (f *fakeML) Summarize(ctx context.Context, incident types.Incident) (string, error) {
	return f.summary, f.err
}

func newTestOrchestrator(registry *fakeRegistry, ml *fakeML) *orchestrator.Orchestrator {
	return orchestrator.New(registry, ml, approval.NewDefaultEvaluator(), metrics.Noop(), nil)
}

func TestCreateIncident_ClassifiesAndTimelines(t *testing.T) {
	ml := &fakeML{classification: types.Classification{
		Category: types.CategoryDatabase, Severity: types.SeverityHigh, Confidence: 0.8, Reasoning: "slow queries",
	}}
	o := newTestOrchestrator(&fakeRegistry{}, ml)

	incident, err := o.CreateIncident(context.Background(), "database is slow")
	require.NoError(t, err)
	assert.Equal(t, types.IncidentTriaged, incident.Status)
	assert.Equal(t, types.CategoryDatabase, incident.Category)
	assert.Equal(t, types.SeverityHigh, incident.Severity)
	assert.Len(t, incident.Timeline, 2)
	assert.Equal(t, "created", incident.Timeline[0].EventType)
	assert.Equal(t, "classified", incident.Timeline[1].EventType)
}

func TestCreateIncident_ClassificationError(t *testing.T) {
	ml := &fakeML{err: errors.New("boom")}
	o := newTestOrchestrator(&fakeRegistry{}, ml)

	incident, err := o.CreateIncident(context.Background(), "something broke")
	require.Error(t, err)
	require.NotNil(t, incident)
	assert.Equal(t, types.IncidentTriaged, incident.Status)
}

func TestGatherContext_SwallowsProviderErrors(t *testing.T) {
	registry := &fakeRegistry{monitoring: &fakeMonitoring{err: errors.New("datadog down")}}
	o := newTestOrchestrator(registry, &fakeML{})

	incident := &types.Incident{ID: "inc-1"}
	findings, err := o.GatherContext(context.Background(), incident)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestGatherContext_DeterministicOrder(t *testing.T) {
	registry := &fakeRegistry{monitoring: &fakeMonitoring{
		alerts: []types.Alert{{ID: "a1", Name: "high cpu", Status: "triggered", Severity: types.SeverityHigh}},
	}}
	o := newTestOrchestrator(registry, &fakeML{})

	incident := &types.Incident{ID: "inc-1"}
	findings, err := o.GatherContext(context.Background(), incident)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.FindingAlert, findings[0].Type)
	assert.Equal(t, "monitoring", findings[0].Source)
}

func TestRecommend_MaterializesActionsAndAwaitsApproval(t *testing.T) {
	ml := &fakeML{recSet: types.RecommendationSet{
		Summary: "restart the service",
		Recommendations: []types.ActionRecommendation{
			{Description: "restart app", RiskLevel: types.RiskHigh, RequiresApproval: true, Integration: "compute", Method: "restart_service"},
			{Description: "notify on-call", RiskLevel: types.RiskLow, RequiresApproval: false},
		},
	}}
	o := newTestOrchestrator(&fakeRegistry{}, ml)

	incident := &types.Incident{ID: "inc-1"}
	recSet, err := o.Recommend(context.Background(), incident, types.DiagnosticResult{})
	require.NoError(t, err)
	assert.Len(t, recSet.Recommendations, 2)
	require.Len(t, incident.Actions, 2)
	assert.Equal(t, types.ActionExecute, incident.Actions[0].Type)
	assert.Equal(t, types.ActionNotify, incident.Actions[1].Type)
	assert.Equal(t, types.IncidentAwaitingApproval, incident.Status)
}

func TestApprovalGate_AutoApproveAndManualApprove(t *testing.T) {
	o := newTestOrchestrator(&fakeRegistry{}, &fakeML{})
	incident := &types.Incident{
		ID: "inc-1",
		Actions: []types.Action{
			{ID: "a1", RiskLevel: types.RiskLow, RequiresApproval: false, Description: "low risk"},
			{ID: "a2", RiskLevel: types.RiskHigh, RequiresApproval: true, Description: "high risk"},
		},
	}

	autoApproved := o.AutoApproveLowRisk(incident)
	require.Len(t, autoApproved, 1)
	assert.Equal(t, "a1", autoApproved[0].ID)

	pending := o.GetPendingApprovals(incident)
	require.Len(t, pending, 1)
	assert.Equal(t, "a2", pending[0].ID)

	approved := o.ApproveAction(incident, "a2", "oncall-engineer")
	require.NotNil(t, approved)
	assert.Equal(t, types.ApprovalApproved, approved.Approved)
	assert.Empty(t, o.GetPendingApprovals(incident))
}

func TestApprovalGate_RejectAction(t *testing.T) {
	o := newTestOrchestrator(&fakeRegistry{}, &fakeML{})
	incident := &types.Incident{
		ID:      "inc-1",
		Actions: []types.Action{{ID: "a1", RiskLevel: types.RiskCritical, RequiresApproval: true, Description: "risky"}},
	}

	rejected := o.RejectAction(incident, "a1", "oncall-engineer")
	require.NotNil(t, rejected)
	assert.Equal(t, types.ApprovalRejected, rejected.Approved)
}

func TestExecuteApprovedActions_SkipsUnapprovedAndAlreadyExecuted(t *testing.T) {
	now := time.Now()
	o := newTestOrchestrator(&fakeRegistry{}, &fakeML{})
	incident := &types.Incident{
		ID: "inc-1",
		Actions: []types.Action{
			{ID: "a1", Approved: types.ApprovalUndecided, Description: "not yet approved"},
			{ID: "a2", Approved: types.ApprovalApproved, ExecutedAt: &now, Description: "already ran"},
			{ID: "a3", Approved: types.ApprovalApproved, Description: "no integration, should skip-run"},
		},
	}

	executed, err := o.ExecuteApprovedActions(context.Background(), incident)
	require.NoError(t, err)
	require.Len(t, executed, 1)
	assert.Equal(t, "a3", executed[0].ID)
	assert.NotNil(t, executed[0].ExecutedAt)
	assert.Equal(t, "skipped", executed[0].Result["status"])
}

func TestVerify_ResolvedWhenNoActiveAlerts(t *testing.T) {
	registry := &fakeRegistry{monitoring: &fakeMonitoring{alerts: nil}}
	o := newTestOrchestrator(registry, &fakeML{})

	incident := &types.Incident{ID: "inc-1"}
	result := o.Verify(context.Background(), incident, 1)
	assert.True(t, result.Resolved)
	assert.Equal(t, types.IncidentResolved, incident.Status)
	assert.NotNil(t, incident.ResolvedAt)
}

func TestVerify_NotResolvedWhileAlertsActive(t *testing.T) {
	registry := &fakeRegistry{monitoring: &fakeMonitoring{
		alerts: []types.Alert{{ID: "a1", Status: "triggered"}},
	}}
	o := newTestOrchestrator(registry, &fakeML{})

	incident := &types.Incident{ID: "inc-1"}
	result := o.Verify(context.Background(), incident, 1)
	assert.False(t, result.Resolved)
	assert.Equal(t, 1, result.ActiveAlertCount)
	assert.NotEqual(t, types.IncidentResolved, incident.Status)
}

func TestVerify_ProviderErrorIsNonFatal(t *testing.T) {
	registry := &fakeRegistry{monitoring: &fakeMonitoring{err: errors.New("provider down")}}
	o := newTestOrchestrator(registry, &fakeML{})

	incident := &types.Incident{ID: "inc-1"}
	result := o.Verify(context.Background(), incident, 1)
	assert.False(t, result.Resolved)
	assert.Contains(t, result.Detail, "provider down")
}

func TestVerifyWithRetry_StopsAtFirstResolved(t *testing.T) {
	registry := &fakeRegistry{monitoring: &fakeMonitoring{alerts: nil}}
	o := newTestOrchestrator(registry, &fakeML{})

	incident := &types.Incident{ID: "inc-1"}
	start := time.Now()
	result := o.VerifyWithRetry(context.Background(), incident, 5, 50*time.Millisecond)
	assert.True(t, result.Resolved)
	assert.Equal(t, 1, result.Attempts)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestVerifyWithRetry_RespectsContextCancellation(t *testing.T) {
	registry := &fakeRegistry{monitoring: &fakeMonitoring{
		alerts: []types.Alert{{ID: "a1", Status: "triggered"}},
	}}
	o := newTestOrchestrator(registry, &fakeML{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	incident := &types.Incident{ID: "inc-1"}
	result := o.VerifyWithRetry(ctx, incident, 10, 100*time.Millisecond)
	assert.False(t, result.Resolved)
}

func TestSummarize_SetsIncidentSummary(t *testing.T) {
	ml := &fakeML{summary: "root cause was a bad deploy, rolled back successfully"}
	o := newTestOrchestrator(&fakeRegistry{}, ml)

	incident := &types.Incident{ID: "inc-1"}
	summary, err := o.Summarize(context.Background(), incident)
	require.NoError(t, err)
	assert.Equal(t, ml.summary, summary)
	assert.Equal(t, ml.summary, incident.Summary)
}

func TestRunDiagnosis_ChainsStagesAndAutoApproves(t *testing.T) {
	registry := &fakeRegistry{monitoring: &fakeMonitoring{}}
	ml := &fakeML{
		classification: types.Classification{Category: types.CategoryCompute, Severity: types.SeverityMedium, Confidence: 0.7},
		diagnosis:      types.DiagnosticResult{RootCause: "memory leak", Confidence: 0.6},
		recSet: types.RecommendationSet{
			Recommendations: []types.ActionRecommendation{
				{Description: "notify team", RiskLevel: types.RiskLow, RequiresApproval: false},
			},
		},
	}
	o := newTestOrchestrator(registry, ml)

	incident, err := o.RunDiagnosis(context.Background(), "app using too much memory")
	require.NoError(t, err)
	require.Len(t, incident.Actions, 1)
	assert.Equal(t, types.ApprovalApproved, incident.Actions[0].Approved)
}

func TestRunFullWorkflow_EndToEnd(t *testing.T) {
	registry := &fakeRegistry{monitoring: &fakeMonitoring{alerts: nil}}
	ml := &fakeML{
		classification: types.Classification{Category: types.CategoryCompute, Severity: types.SeverityLow, Confidence: 0.9},
		diagnosis:      types.DiagnosticResult{RootCause: "transient spike", Confidence: 0.9},
		recSet: types.RecommendationSet{
			Recommendations: []types.ActionRecommendation{
				{Description: "no-op notify", RiskLevel: types.RiskLow, RequiresApproval: false},
			},
		},
		summary: "resolved itself",
	}
	o := newTestOrchestrator(registry, ml)

	incident, verification, err := o.RunFullWorkflow(context.Background(), "minor blip", 3, 10*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, verification.Resolved)
	assert.Equal(t, types.IncidentResolved, incident.Status)
	assert.Equal(t, "resolved itself", incident.Summary)
}

func TestExecuteApprovedActions_WithIdempotencyCacheSkipsClaimedAction(t *testing.T) {
	o := newTestOrchestrator(&fakeRegistry{}, &fakeML{})
	// A nil-client cache can't be exercised without a real Redis instance,
	// so this only verifies WithIdempotencyCache is chainable and a nil
	// cache (the default) never blocks execution.
	o = o.WithIdempotencyCache(nil)

	incident := &types.Incident{
		ID:      "inc-1",
		Actions: []types.Action{{ID: "a1", Approved: types.ApprovalApproved, Description: "no integration"}},
	}
	executed, err := o.ExecuteApprovedActions(context.Background(), incident)
	require.NoError(t, err)
	assert.Len(t, executed, 1)
}
