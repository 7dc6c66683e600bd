// Package mock implements types.MLEngine against a fixed, scenario-keyed
// set of canned responses, so runbooks can be exercised end to end
// without calling a real LLM.
package mock

import (
	"context"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// fixture bundles the canned ML responses for one named scenario.
type fixture struct {
	classification types.Classification
	diagnosis      types.DiagnosticResult
	recommendation types.RecommendationSet
}

var fixtures = map[string]fixture{
	"high_cpu": {
		classification: types.Classification{
			Category: types.CategoryCompute, Severity: types.SeverityHigh, Confidence: 0.88,
			Reasoning: "Sustained CPU saturation on a single host consistent with a compute-bound incident.",
		},
		diagnosis: types.DiagnosticResult{
			RootCause:           "Worker pool saturation following the v2.14.0 deploy exhausted available CPU on web-prod-03.",
			EvidenceSummary:     "CPU climbed from 40% to 94% over 15 minutes; logs show the worker pool rejecting new connections.",
			Confidence:          0.82,
			ContributingFactors: []string{"recent deploy", "no autoscaling headroom"},
			AffectedComponents:  []string{"web-prod-03", "api-server"},
		},
		recommendation: types.RecommendationSet{
			Recommendations: []types.ActionRecommendation{
				{Description: "Restart the api-server service on web-prod-03", RiskLevel: types.RiskMedium, RequiresApproval: true, Integration: "aws", Method: "RestartService", Reasoning: "Clears the saturated worker pool."},
				{Description: "Notify on-call channel of remediation in progress", RiskLevel: types.RiskLow, RequiresApproval: false, Integration: "slack", Method: "SendMessage"},
			},
			Summary:                 "Restart the saturated service and notify the team while monitoring recovery.",
			RequiresImmediateAction: true,
		},
	},
	"database_connection": {
		classification: types.Classification{
			Category: types.CategoryDatabase, Severity: types.SeverityCritical, Confidence: 0.91,
			Reasoning: "Connection pool exhaustion is a classic database-availability incident.",
		},
		diagnosis: types.DiagnosticResult{
			RootCause:           "A recent max_connections change combined with leaked connections exhausted the pool.",
			EvidenceSummary:     "Active connections climbed to 100% of the configured limit; postgres logs show repeated client rejections.",
			Confidence:          0.85,
			ContributingFactors: []string{"recent config change", "possible connection leak"},
			AffectedComponents:  []string{"db-prod-01"},
		},
		recommendation: types.RecommendationSet{
			Recommendations: []types.ActionRecommendation{
				{Description: "Page the database on-call engineer", RiskLevel: types.RiskLow, RequiresApproval: false, Integration: "pagerduty", Method: "TriggerAlert"},
				{Description: "Terminate idle connections older than 10 minutes", RiskLevel: types.RiskHigh, RequiresApproval: true, Integration: "aws", Method: "RestartService"},
			},
			Summary:                 "Page the data team and clear leaked connections before increasing the pool size further.",
			RequiresImmediateAction: true,
		},
	},
}

func defaultFixture() fixture {
	return fixture{
		classification: types.Classification{Category: types.CategoryUnknown, Severity: types.SeverityMedium, Confidence: 0.4, Reasoning: "No scenario-specific classification available."},
		diagnosis:      types.DiagnosticResult{RootCause: "Unable to determine root cause from available evidence.", Confidence: 0.3},
		recommendation: types.RecommendationSet{Summary: "Insufficient evidence to recommend automated remediation; escalate to on-call."},
	}
}

func lookup(scenario string) fixture {
	if f, ok := fixtures[scenario]; ok {
		return f
	}
	return defaultFixture()
}

// Engine implements types.MLEngine against canned, scenario-keyed
// responses.
type Engine struct {
	scenario string
}

// NewEngine builds a scenario-backed mock ML engine.
func NewEngine(scenario string) *Engine {
	return &Engine{scenario: scenario}
}

var _ types.MLEngine = (*Engine)(nil)

func (e *Engine) Classify(ctx context.Context, description string) (types.Classification, error) {
	return lookup(e.scenario).classification, nil
}

func (e *Engine) Diagnose(ctx context.Context, description string, findings []types.Finding) (types.DiagnosticResult, error) {
	return lookup(e.scenario).diagnosis, nil
}

func (e *Engine) Recommend(ctx context.Context, description string, diagnosis types.DiagnosticResult, findings []types.Finding) (types.RecommendationSet, error) {
	return lookup(e.scenario).recommendation, nil
}

func (e *Engine) Summarize(ctx context.Context, incident types.Incident) (string, error) {
	return "Incident " + incident.ID + " (" + string(incident.Severity) + "): " + incident.Title +
		". Currently " + string(incident.Status) + ".", nil
}
