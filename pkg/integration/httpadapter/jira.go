package httpadapter

import (
	"context"

	"github.com/jordigilh/runbookengine/internal/config"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// Jira implements types.TicketingProvider against the Jira Cloud REST
// API, covering the subset the runbook engine needs (issue
// create/get/update, no change-management or KB support in vanilla
// Jira so those two methods return empty results rather than erroring).
type Jira struct {
	c *client
}

// NewJira builds a live Jira adapter from configuration.
func NewJira(cfg config.JiraConfig) *Jira {
	return &Jira{c: newClient(cfg.URL+"/rest/api/3", "Authorization", basicAuthValue(cfg.Username, cfg.APIToken))}
}

var _ types.TicketingProvider = (*Jira)(nil)

type jiraIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
	} `json:"fields"`
}

func (j *Jira) GetIncident(ctx context.Context, id string) (types.TicketRecord, error) {
	var issue jiraIssue
	if err := j.c.do(ctx, "GET", "/issue/"+id, nil, &issue); err != nil {
		return types.TicketRecord{}, err
	}
	return types.TicketRecord{ID: issue.Key, Number: issue.Key, Description: issue.Fields.Summary, Status: issue.Fields.Status.Name}, nil
}

func (j *Jira) CreateIncident(ctx context.Context, req types.CreateIncidentRequest) (types.TicketRecord, error) {
	body := map[string]interface{}{
		"fields": map[string]interface{}{
			"summary":     req.ShortDescription,
			"description": req.Description,
			"issuetype":   map[string]string{"name": "Incident"},
		},
	}
	var created struct {
		Key string `json:"key"`
	}
	if err := j.c.do(ctx, "POST", "/issue", body, &created); err != nil {
		return types.TicketRecord{}, err
	}
	return types.TicketRecord{ID: created.Key, Number: created.Key, Description: req.ShortDescription, Status: "open"}, nil
}

func (j *Jira) UpdateIncident(ctx context.Context, id string, updates map[string]interface{}) (types.TicketRecord, error) {
	body := map[string]interface{}{"fields": updates}
	if err := j.c.do(ctx, "PUT", "/issue/"+id, body, nil); err != nil {
		return types.TicketRecord{}, err
	}
	return j.GetIncident(ctx, id)
}

// GetRecentChanges returns no results: plain Jira Cloud has no
// change-management concept (that's a ServiceNow-specific module).
func (j *Jira) GetRecentChanges(ctx context.Context, timeframe string) ([]types.ChangeRecord, error) {
	return nil, nil
}

func (j *Jira) AddWorkNote(ctx context.Context, id string, note string) error {
	body := map[string]interface{}{"body": note}
	return j.c.do(ctx, "POST", "/issue/"+id+"/comment", body, nil)
}

// SearchKnowledgeBase returns no results: plain Jira Cloud has no
// built-in knowledge base (that's a Confluence integration).
func (j *Jira) SearchKnowledgeBase(ctx context.Context, query string) ([]types.KBArticle, error) {
	return nil, nil
}
