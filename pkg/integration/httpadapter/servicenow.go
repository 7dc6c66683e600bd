package httpadapter

import (
	"context"
	"fmt"

	"github.com/jordigilh/runbookengine/internal/config"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// ServiceNow implements types.TicketingProvider against a real
// ServiceNow instance's Table API.
type ServiceNow struct {
	c *client
}

// NewServiceNow builds a live ServiceNow adapter from configuration.
func NewServiceNow(cfg config.ServiceNowConfig) *ServiceNow {
	return &ServiceNow{
		c: newClient(
			fmt.Sprintf("https://%s.service-now.com/api/now", cfg.Instance),
			"Authorization",
			basicAuthValue(cfg.Username, cfg.Password),
		),
	}
}

var _ types.TicketingProvider = (*ServiceNow)(nil)

type snIncident struct {
	SysID            string `json:"sys_id"`
	Number           string `json:"number"`
	ShortDescription string `json:"short_description"`
	State            string `json:"state"`
}

func (s *ServiceNow) GetIncident(ctx context.Context, id string) (types.TicketRecord, error) {
	var resp struct {
		Result snIncident `json:"result"`
	}
	if err := s.c.do(ctx, "GET", "/table/incident/"+id, nil, &resp); err != nil {
		return types.TicketRecord{}, err
	}
	return toTicketRecord(resp.Result), nil
}

func (s *ServiceNow) CreateIncident(ctx context.Context, req types.CreateIncidentRequest) (types.TicketRecord, error) {
	body := map[string]interface{}{
		"short_description": req.ShortDescription,
		"description":       req.Description,
		"urgency":           severityToUrgency(req.Severity),
	}
	var resp struct {
		Result snIncident `json:"result"`
	}
	if err := s.c.do(ctx, "POST", "/table/incident", body, &resp); err != nil {
		return types.TicketRecord{}, err
	}
	return toTicketRecord(resp.Result), nil
}

func (s *ServiceNow) UpdateIncident(ctx context.Context, id string, updates map[string]interface{}) (types.TicketRecord, error) {
	var resp struct {
		Result snIncident `json:"result"`
	}
	if err := s.c.do(ctx, "PATCH", "/table/incident/"+id, updates, &resp); err != nil {
		return types.TicketRecord{}, err
	}
	return toTicketRecord(resp.Result), nil
}

func (s *ServiceNow) GetRecentChanges(ctx context.Context, timeframe string) ([]types.ChangeRecord, error) {
	var resp struct {
		Result []struct {
			SysID       string `json:"sys_id"`
			Number      string `json:"number"`
			Description string `json:"short_description"`
			State       string `json:"state"`
			RequestedBy string `json:"requested_by"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/table/change_request?sysparm_query=sys_created_onONLast%%20%s@javascript:gs.daysAgoStart(0)", timeframe)
	if err := s.c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	changes := make([]types.ChangeRecord, 0, len(resp.Result))
	for _, r := range resp.Result {
		changes = append(changes, types.ChangeRecord{
			ID: r.SysID, Number: r.Number, Description: r.Description, Status: r.State, RequestedBy: r.RequestedBy,
		})
	}
	return changes, nil
}

func (s *ServiceNow) AddWorkNote(ctx context.Context, id string, note string) error {
	return s.c.do(ctx, "PATCH", "/table/incident/"+id, map[string]interface{}{"work_notes": note}, nil)
}

func (s *ServiceNow) SearchKnowledgeBase(ctx context.Context, query string) ([]types.KBArticle, error) {
	var resp struct {
		Result []struct {
			SysID string `json:"sys_id"`
			Title string `json:"short_description"`
			Text  string `json:"text"`
		} `json:"result"`
	}
	if err := s.c.do(ctx, "GET", "/table/kb_knowledge?sysparm_query=textLIKE"+query, nil, &resp); err != nil {
		return nil, err
	}
	articles := make([]types.KBArticle, 0, len(resp.Result))
	for _, r := range resp.Result {
		articles = append(articles, types.KBArticle{ID: r.SysID, Title: r.Title, Content: r.Text})
	}
	return articles, nil
}

func toTicketRecord(i snIncident) types.TicketRecord {
	return types.TicketRecord{ID: i.SysID, Number: i.Number, Description: i.ShortDescription, Status: i.State}
}

func severityToUrgency(s types.Severity) string {
	switch s {
	case types.SeverityCritical:
		return "1"
	case types.SeverityHigh:
		return "2"
	default:
		return "3"
	}
}
