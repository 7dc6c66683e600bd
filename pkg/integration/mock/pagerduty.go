package mock

import (
	"context"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// PagerDuty implements types.AlertingProvider against a canned scenario.
type PagerDuty struct {
	base
	acked map[string]bool
}

// NewPagerDuty builds a scenario-backed alerting provider.
func NewPagerDuty(scenarioName string, delayEnabled bool) *PagerDuty {
	return &PagerDuty{
		base:  newBase("pagerduty", scenarioName, delayEnabled),
		acked: make(map[string]bool),
	}
}

var _ types.AlertingProvider = (*PagerDuty)(nil)

func (p *PagerDuty) GetActiveIncidents(ctx context.Context) ([]types.PagerIncident, error) {
	if err := p.simulateDelay(ctx); err != nil {
		return nil, err
	}
	incidents := make([]types.PagerIncident, 0, len(p.data.pagerIncidents))
	for _, inc := range p.data.pagerIncidents {
		if p.acked[inc.id] {
			continue
		}
		incidents = append(incidents, types.PagerIncident{
			ID:      inc.id,
			Title:   inc.title,
			Status:  inc.status,
			Urgency: inc.urgency,
			Service: inc.service,
		})
	}
	return incidents, nil
}

func (p *PagerDuty) GetOnCall(ctx context.Context, schedule string) (types.OnCallInfo, error) {
	if err := p.simulateDelay(ctx); err != nil {
		return types.OnCallInfo{}, err
	}
	oc := p.data.onCall
	return types.OnCallInfo{User: oc.user, Schedule: schedule, EscalationLevel: oc.level}, nil
}

func (p *PagerDuty) TriggerAlert(ctx context.Context, req types.AlertRequest) error {
	return p.simulateDelay(ctx)
}

func (p *PagerDuty) AcknowledgeAlert(ctx context.Context, id string) error {
	if err := p.simulateDelay(ctx); err != nil {
		return err
	}
	p.acked[id] = true
	return nil
}
