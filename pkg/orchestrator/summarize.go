package orchestrator

import (
	"context"
	"fmt"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// Summarize asks the ML engine to produce a human-readable incident
// summary and attaches it to the incident (stage 8).
func (o *Orchestrator) Summarize(ctx context.Context, incident *types.Incident) (string, error) {
	ctx, span := tracer.Start(ctx, "orchestrator.Summarize")
	defer span.End()

	summary, err := o.ml.Summarize(ctx, *incident)
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}

	incident.Summary = summary
	addTimeline(incident, "summarized", "Incident summary generated", "ml_engine", nil)
	return summary, nil
}
