package mock

import (
	"context"
	"fmt"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// ServiceNow implements types.TicketingProvider against a canned
// scenario. Mutations (CreateIncident, UpdateIncident, AddWorkNote) are
// held in-memory for the provider's lifetime rather than persisted.
type ServiceNow struct {
	base
	tickets map[string]types.TicketRecord
	notes   map[string][]string
	seq     int
}

// NewServiceNow builds a scenario-backed ticketing provider.
func NewServiceNow(scenarioName string, delayEnabled bool) *ServiceNow {
	return &ServiceNow{
		base:    newBase("servicenow", scenarioName, delayEnabled),
		tickets: make(map[string]types.TicketRecord),
		notes:   make(map[string][]string),
	}
}

var _ types.TicketingProvider = (*ServiceNow)(nil)

func (s *ServiceNow) GetIncident(ctx context.Context, id string) (types.TicketRecord, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return types.TicketRecord{}, err
	}
	if t, ok := s.tickets[id]; ok {
		return t, nil
	}
	return types.TicketRecord{ID: id, Status: "unknown"}, nil
}

func (s *ServiceNow) CreateIncident(ctx context.Context, req types.CreateIncidentRequest) (types.TicketRecord, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return types.TicketRecord{}, err
	}
	s.seq++
	t := types.TicketRecord{
		ID:          fmt.Sprintf("inc-%04d", s.seq),
		Number:      fmt.Sprintf("INC%07d", s.seq),
		Description: req.ShortDescription,
		Status:      "new",
		Severity:    req.Severity,
	}
	s.tickets[t.ID] = t
	return t, nil
}

func (s *ServiceNow) UpdateIncident(ctx context.Context, id string, updates map[string]interface{}) (types.TicketRecord, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return types.TicketRecord{}, err
	}
	t := s.tickets[id]
	t.ID = id
	if status, ok := updates["status"].(string); ok {
		t.Status = status
	}
	s.tickets[id] = t
	return t, nil
}

func (s *ServiceNow) GetRecentChanges(ctx context.Context, timeframe string) ([]types.ChangeRecord, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return nil, err
	}
	changes := make([]types.ChangeRecord, 0, len(s.data.changes))
	for _, c := range s.data.changes {
		changes = append(changes, types.ChangeRecord{
			ID:          c.id,
			Number:      c.number,
			Description: c.description,
			Status:      c.status,
			RequestedBy: c.requestedBy,
		})
	}
	return changes, nil
}

func (s *ServiceNow) AddWorkNote(ctx context.Context, id string, note string) error {
	if err := s.simulateDelay(ctx); err != nil {
		return err
	}
	s.notes[id] = append(s.notes[id], note)
	return nil
}

func (s *ServiceNow) SearchKnowledgeBase(ctx context.Context, query string) ([]types.KBArticle, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return nil, err
	}
	articles := make([]types.KBArticle, 0, len(s.data.kb))
	for _, k := range s.data.kb {
		articles = append(articles, types.KBArticle{
			ID:             k.id,
			Title:          k.title,
			Content:        k.content,
			RelevanceScore: k.relevance,
		})
	}
	return articles, nil
}
