// Package executor runs a validated Runbook step by step against the
// integration registry and the ML engine, pausing at approval gates
// and recording each step's outcome onto the incident timeline.
package executor

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jordigilh/runbookengine/pkg/integration"
	"github.com/jordigilh/runbookengine/pkg/metrics"
	"github.com/jordigilh/runbookengine/pkg/template"
	"github.com/jordigilh/runbookengine/pkg/types"
)

var tracer = otel.Tracer("github.com/jordigilh/runbookengine/pkg/executor")

// Registry is the subset of *integration.Registry the executor depends
// on, narrowed to an interface so tests can substitute a fake.
type Registry interface {
	GetProvider(ctx context.Context, category types.IntegrationCategory) (interface{}, error)
}

var _ Registry = (*integration.Registry)(nil)

// MLEngine is the ml_decision dispatch target.
type MLEngine interface {
	Diagnose(ctx context.Context, description string, findings []types.Finding) (types.DiagnosticResult, error)
}

// Executor runs runbook steps and whole runbooks against a registry and
// an ML engine.
type Executor struct {
	registry Registry
	ml       MLEngine
	metrics  *metrics.Collector
}

// New builds an Executor. Pass metrics.Noop() when no real metrics
// backend is wired (tests, one-off CLI runs).
func New(registry Registry, ml MLEngine, collector *metrics.Collector) *Executor {
	return &Executor{registry: registry, ml: ml, metrics: collector}
}

// ExecuteStep runs a single step, dispatching to the ML engine for
// ml_decision steps and to the integration registry for gather/execute
// steps. It does not itself check step.RequiresApproval — that gate is
// the runbook loop's responsibility (ExecuteRunbook/ResumeRunbook),
// since a single step in isolation has no notion of "already approved".
func (e *Executor) ExecuteStep(ctx context.Context, step types.RunbookStep, incident *types.Incident, stepResults map[string]interface{}) types.StepResult {
	ctx, span := tracer.Start(ctx, "executor.ExecuteStep", trace.WithAttributes(
		attribute.String("step.id", step.ID),
		attribute.String("step.action", string(step.Action)),
	))
	defer span.End()

	start := time.Now()
	var result types.StepResult
	if step.Action == types.StepActionMLDecision {
		result = e.runMLDecision(ctx, step, incident, stepResults)
	} else {
		result = e.runIntegrationStep(ctx, step, incident, stepResults)
	}

	if e.metrics != nil {
		e.metrics.StepOutcomes.WithLabelValues(string(step.Action), string(result.Status)).Inc()
		e.metrics.StepDuration.WithLabelValues(string(step.Action)).Observe(time.Since(start).Seconds())
	}
	return result
}

func (e *Executor) runIntegrationStep(ctx context.Context, step types.RunbookStep, incident *types.Incident, stepResults map[string]interface{}) types.StepResult {
	now := time.Now()
	resolvedParams := template.ResolveParams(step.Params, incident, stepResults)

	category := types.IntegrationCategory(step.Integration)
	provider, err := e.registry.GetProvider(ctx, category)
	if err != nil {
		return types.StepResult{
			StepID: step.ID, Status: types.StepFailed,
			Error: fmt.Sprintf("provider not found for %q: %s", step.Integration, err.Error()),
		}
	}

	raw, err := invoke(ctx, category, provider, step.Method, resolvedParams)
	if err != nil {
		return types.StepResult{
			StepID: step.ID, Status: types.StepFailed,
			Error: err.Error(),
		}
	}

	return types.StepResult{
		StepID:     step.ID,
		Status:     types.StepSuccess,
		Result:     coerceToDict(raw),
		ExecutedAt: &now,
	}
}

func (e *Executor) runMLDecision(ctx context.Context, step types.RunbookStep, incident *types.Incident, stepResults map[string]interface{}) types.StepResult {
	now := time.Now()

	findings := make([]types.Finding, 0, len(step.Context))
	for _, ref := range step.Context {
		refData, ok := stepResults[ref]
		if !ok {
			continue
		}
		details, ok := refData.(map[string]interface{})
		if !ok {
			details = map[string]interface{}{"value": fmt.Sprint(refData)}
		}
		findings = append(findings, types.Finding{
			Type:       types.FindingCorrelation,
			Source:     "runbook_step:" + ref,
			Summary:    fmt.Sprintf("Data gathered by runbook step %q", ref),
			Details:    details,
			Confidence: 0.8,
		})
	}

	diagnosis, err := e.ml.Diagnose(ctx, incident.Description, findings)
	if err != nil {
		return types.StepResult{StepID: step.ID, Status: types.StepFailed, Error: err.Error()}
	}

	return types.StepResult{
		StepID:     step.ID,
		Status:     types.StepSuccess,
		Result:     coerceToDict(diagnosis),
		ExecutedAt: &now,
	}
}
