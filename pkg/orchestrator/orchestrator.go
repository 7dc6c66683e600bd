// Package orchestrator implements the incident lifecycle: classify,
// gather, diagnose, recommend, gate, execute, verify, document. Each
// stage is its own method so callers can drive the workflow
// step-by-step (a human approval UI) or run it end-to-end via
// RunDiagnosis/RunFullWorkflow.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/pkg/approval"
	"github.com/jordigilh/runbookengine/pkg/metrics"
	"github.com/jordigilh/runbookengine/pkg/types"
)

var tracer = otel.Tracer("github.com/jordigilh/runbookengine/pkg/orchestrator")

// Registry is the subset of *integration.Registry the orchestrator
// depends on, narrowed to an interface so it can be faked in tests.
// Call routes a provider invocation through the category's circuit
// breaker; every gather/execute call site uses it instead of invoking
// the provider method directly, so a flapping upstream trips the
// breaker regardless of which stage is calling it.
type Registry interface {
	GetProvider(ctx context.Context, category types.IntegrationCategory) (interface{}, error)
	Call(category types.IntegrationCategory, fn func() (interface{}, error)) (interface{}, error)
}

// MLEngine is the orchestrator's ML dependency — the full
// types.MLEngine contract.
type MLEngine = types.MLEngine

// Orchestrator is the central coordinator for the incident diagnostic
// workflow. Construct one per request path (it is not safe to run two
// workflows over the same *types.Incident concurrently, though
// GatherContext itself fans out internally).
type Orchestrator struct {
	registry    Registry
	ml          MLEngine
	evaluator   *approval.Evaluator
	metrics     *metrics.Collector
	logger      *zap.Logger
	idempotency *IdempotencyCache
}

// New builds an Orchestrator. Pass nil evaluator to use
// approval.NewDefaultEvaluator(), nil logger for a no-op logger, and
// metrics.Noop() when no real metrics backend is wired.
func New(registry Registry, ml MLEngine, evaluator *approval.Evaluator, collector *metrics.Collector, logger *zap.Logger) *Orchestrator {
	if evaluator == nil {
		evaluator = approval.NewDefaultEvaluator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{registry: registry, ml: ml, evaluator: evaluator, metrics: collector, logger: logger}
}

func addTimeline(incident *types.Incident, eventType, summary, source string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	incident.Timeline = append(incident.Timeline, types.TimelineEntry{
		Timestamp: time.Now(),
		EventType: eventType,
		Summary:   summary,
		Source:    source,
		Details:   details,
	})
}

// CreateIncident creates a new incident from a free-text problem
// description and immediately classifies it (stage 1: create + classify).
func (o *Orchestrator) CreateIncident(ctx context.Context, problemDescription string) (*types.Incident, error) {
	ctx, span := tracer.Start(ctx, "orchestrator.CreateIncident")
	defer span.End()

	incident := &types.Incident{
		ID:          types.NewIncidentID(),
		Title:       truncateTitle(problemDescription, 120),
		Description: problemDescription,
		Status:      types.IncidentNew,
		CreatedAt:   time.Now(),
	}
	addTimeline(incident, "created", "Incident created from user report", "", nil)

	incident.Status = types.IncidentTriaged
	classification, err := o.ml.Classify(ctx, problemDescription)
	if err != nil {
		return incident, fmt.Errorf("classification failed: %w", err)
	}
	incident.Classification = &classification
	incident.Severity = classification.Severity
	incident.Category = classification.Category

	addTimeline(incident, "classified",
		fmt.Sprintf("Classified as %s / %s (confidence: %.0f%%)", classification.Category, classification.Severity, classification.Confidence*100),
		"ml_engine",
		map[string]interface{}{"reasoning": classification.Reasoning})

	return incident, nil
}

func truncateTitle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Diagnose runs ML diagnosis over the incident's gathered findings
// (stage 3).
func (o *Orchestrator) Diagnose(ctx context.Context, incident *types.Incident) (types.DiagnosticResult, error) {
	ctx, span := tracer.Start(ctx, "orchestrator.Diagnose")
	defer span.End()

	addTimeline(incident, "diagnosing", "Running ML diagnosis", "", nil)

	diagnosis, err := o.ml.Diagnose(ctx, incident.Description, incident.Findings)
	if err != nil {
		return diagnosis, fmt.Errorf("diagnosis failed: %w", err)
	}

	addTimeline(incident, "diagnosed",
		fmt.Sprintf("Root cause: %s (confidence: %.0f%%)", diagnosis.RootCause, diagnosis.Confidence*100),
		"ml_engine",
		map[string]interface{}{
			"contributing_factors": diagnosis.ContributingFactors,
			"affected_components":  diagnosis.AffectedComponents,
		})
	return diagnosis, nil
}

// Recommend asks the ML engine for action recommendations and
// materializes each into an Action on the incident (stage 4).
func (o *Orchestrator) Recommend(ctx context.Context, incident *types.Incident, diagnosis types.DiagnosticResult) (types.RecommendationSet, error) {
	ctx, span := tracer.Start(ctx, "orchestrator.Recommend")
	defer span.End()

	recSet, err := o.ml.Recommend(ctx, incident.Description, diagnosis, incident.Findings)
	if err != nil {
		return recSet, fmt.Errorf("recommendation failed: %w", err)
	}

	for _, rec := range recSet.Recommendations {
		incident.Actions = append(incident.Actions, recommendationToAction(rec))
	}

	incident.Status = types.IncidentAwaitingApproval
	addTimeline(incident, "recommended",
		fmt.Sprintf("%d actions recommended — %s", len(recSet.Recommendations), recSet.Summary),
		"ml_engine", nil)
	return recSet, nil
}

func recommendationToAction(rec types.ActionRecommendation) types.Action {
	actionType := types.ActionNotify
	if rec.Integration != "" {
		actionType = types.ActionExecute
	}
	return types.Action{
		ID:               types.NewActionID(),
		Type:             actionType,
		Description:      rec.Description,
		RiskLevel:        rec.RiskLevel,
		RequiresApproval: rec.RequiresApproval,
		Integration:      rec.Integration,
		Method:           rec.Method,
		Params:           rec.Params,
		Approved:         types.ApprovalUndecided,
	}
}
