package httpadapter

import (
	"context"

	"github.com/jordigilh/runbookengine/internal/config"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// PagerDuty implements types.AlertingProvider against the real
// PagerDuty REST API.
type PagerDuty struct {
	c *client
}

// NewPagerDuty builds a live PagerDuty adapter from configuration.
func NewPagerDuty(cfg config.PagerDutyConfig) *PagerDuty {
	return &PagerDuty{c: newClient("https://api.pagerduty.com", "Authorization", "Token token="+cfg.APIKey)}
}

var _ types.AlertingProvider = (*PagerDuty)(nil)

func (p *PagerDuty) GetActiveIncidents(ctx context.Context) ([]types.PagerIncident, error) {
	var resp struct {
		Incidents []struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Status  string `json:"status"`
			Urgency string `json:"urgency"`
			Service struct {
				Summary string `json:"summary"`
			} `json:"service"`
		} `json:"incidents"`
	}
	if err := p.c.do(ctx, "GET", "/incidents?statuses[]=triggered&statuses[]=acknowledged", nil, &resp); err != nil {
		return nil, err
	}
	incidents := make([]types.PagerIncident, 0, len(resp.Incidents))
	for _, inc := range resp.Incidents {
		incidents = append(incidents, types.PagerIncident{
			ID: inc.ID, Title: inc.Title, Status: inc.Status, Urgency: inc.Urgency, Service: inc.Service.Summary,
		})
	}
	return incidents, nil
}

func (p *PagerDuty) GetOnCall(ctx context.Context, schedule string) (types.OnCallInfo, error) {
	var resp struct {
		OnCalls []struct {
			User struct {
				Summary string `json:"summary"`
			} `json:"user"`
			EscalationLevel int `json:"escalation_level"`
		} `json:"oncalls"`
	}
	if err := p.c.do(ctx, "GET", "/oncalls?schedule_ids[]="+schedule, nil, &resp); err != nil {
		return types.OnCallInfo{}, err
	}
	if len(resp.OnCalls) == 0 {
		return types.OnCallInfo{Schedule: schedule}, nil
	}
	return types.OnCallInfo{User: resp.OnCalls[0].User.Summary, Schedule: schedule, EscalationLevel: resp.OnCalls[0].EscalationLevel}, nil
}

func (p *PagerDuty) TriggerAlert(ctx context.Context, req types.AlertRequest) error {
	body := map[string]interface{}{
		"incident": map[string]interface{}{
			"type":  "incident",
			"title": req.Title,
			"urgency": func() string {
				if req.Severity == types.SeverityCritical || req.Severity == types.SeverityHigh {
					return "high"
				}
				return "low"
			}(),
		},
	}
	return p.c.do(ctx, "POST", "/incidents", body, nil)
}

func (p *PagerDuty) AcknowledgeAlert(ctx context.Context, id string) error {
	body := map[string]interface{}{
		"incident": map[string]interface{}{"type": "incident_reference", "status": "acknowledged"},
	}
	return p.c.do(ctx, "PUT", "/incidents/"+id, body, nil)
}
