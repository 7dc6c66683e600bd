package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jordigilh/runbookengine/pkg/approval"
	"github.com/jordigilh/runbookengine/pkg/metrics"
	"github.com/jordigilh/runbookengine/pkg/orchestrator"
	"github.com/jordigilh/runbookengine/pkg/types"
)

type stubRegistry struct{}

func (stubRegistry) GetProvider(ctx context.Context, category types.IntegrationCategory) (interface{}, error) {
	return nil, errNoProviderInTest
}

func (stubRegistry) Call(category types.IntegrationCategory, fn func() (interface{}, error)) (interface{}, error) {
	return fn()
}

var errNoProviderInTest = errors.New("no provider configured in this test")

type stubML struct{}

func (stubML) Classify(ctx context.Context, description string) (types.Classification, error) {
	return types.Classification{Category: types.CategoryApplication, Severity: types.SeverityLow, Confidence: 0.5}, nil
}
func (stubML) Diagnose(ctx context.Context, description string, findings []types.Finding) (types.DiagnosticResult, error) {
	return types.DiagnosticResult{RootCause: "unknown", Confidence: 0.5}, nil
}
func (stubML) Recommend(ctx context.Context, description string, diagnosis types.DiagnosticResult, findings []types.Finding) (types.RecommendationSet, error) {
	return types.RecommendationSet{
		Recommendations: []types.ActionRecommendation{
			{Description: "notify on-call", RiskLevel: types.RiskLow, RequiresApproval: false},
			{Description: "restart service", RiskLevel: types.RiskHigh, RequiresApproval: true},
		},
	}, nil
}
func (stubML) Summarize(ctx context.Context, incident types.Incident) (string, error) {
	return "summary", nil
}

func newTestServer(t *testing.T) *server {
	o := orchestrator.New(stubRegistry{}, stubML{}, approval.NewDefaultEvaluator(), metrics.Noop(), zaptest.NewLogger(t))
	return newServer(o, zaptest.NewLogger(t))
}

func TestHandleCreateIncident_And_Diagnose_And_Approve(t *testing.T) {
	s := newTestServer(t)
	router := s.routes()

	createReq := httptest.NewRequest(http.MethodPost, "/api/v1/incidents/", strings.NewReader(`{"description":"db is slow"}`))
	createRec := httptest.NewRecorder()
	router.ServeHTTP(createRec, createReq)
	require.Equal(t, http.StatusCreated, createRec.Code)

	var incident types.Incident
	require.NoError(t, json.NewDecoder(createRec.Body).Decode(&incident))
	require.NotEmpty(t, incident.ID)

	diagReq := httptest.NewRequest(http.MethodPost, "/api/v1/incidents/"+incident.ID+"/diagnose", nil)
	diagRec := httptest.NewRecorder()
	router.ServeHTTP(diagRec, diagReq)
	require.Equal(t, http.StatusOK, diagRec.Code)

	var diagnosed types.Incident
	require.NoError(t, json.NewDecoder(diagRec.Body).Decode(&diagnosed))
	require.Len(t, diagnosed.Actions, 2)

	pendingReq := httptest.NewRequest(http.MethodGet, "/api/v1/incidents/"+incident.ID+"/approvals", nil)
	pendingRec := httptest.NewRecorder()
	router.ServeHTTP(pendingRec, pendingReq)
	require.Equal(t, http.StatusOK, pendingRec.Code)

	var pending []*types.Action
	require.NoError(t, json.NewDecoder(pendingRec.Body).Decode(&pending))
	require.Len(t, pending, 1)

	approveReq := httptest.NewRequest(http.MethodPost,
		"/api/v1/incidents/"+incident.ID+"/approvals/"+pending[0].ID+"/approve",
		strings.NewReader(`{"approved_by":"oncall-engineer"}`))
	approveRec := httptest.NewRecorder()
	router.ServeHTTP(approveRec, approveReq)
	assert.Equal(t, http.StatusOK, approveRec.Code)
}

func TestHandleGetIncident_NotFound(t *testing.T) {
	s := newTestServer(t)
	router := s.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t)
	router := s.routes()

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
