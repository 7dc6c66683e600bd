package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jordigilh/runbookengine/pkg/types"
)

type createIncidentRequest struct {
	Description string `json:"description"`
}

func (s *server) handleCreateIncident(w http.ResponseWriter, r *http.Request) {
	var req createIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	incident, err := s.orch.CreateIncident(r.Context(), req.Description)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	s.put(incident)
	writeJSON(w, http.StatusCreated, incident)
}

func (s *server) handleGetIncident(w http.ResponseWriter, r *http.Request) {
	incident, ok := s.get(chi.URLParam(r, "incidentID"))
	if !ok {
		writeError(w, http.StatusNotFound, errIncidentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}

// handleDiagnose runs gather, diagnose, and recommend against an
// existing incident, then auto-approves whatever the approval policy
// doesn't require a human for.
func (s *server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	incident, ok := s.get(chi.URLParam(r, "incidentID"))
	if !ok {
		writeError(w, http.StatusNotFound, errIncidentNotFound)
		return
	}

	ctx := r.Context()
	if _, err := s.orch.GatherContext(ctx, incident); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	diagnosis, err := s.orch.Diagnose(ctx, incident)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if _, err := s.orch.Recommend(ctx, incident, diagnosis); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	s.orch.AutoApproveLowRisk(incident)

	writeJSON(w, http.StatusOK, incident)
}

func (s *server) handlePendingApprovals(w http.ResponseWriter, r *http.Request) {
	incident, ok := s.get(chi.URLParam(r, "incidentID"))
	if !ok {
		writeError(w, http.StatusNotFound, errIncidentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.orch.GetPendingApprovals(incident))
}

type approvalRequest struct {
	ApprovedBy string `json:"approved_by"`
	RejectedBy string `json:"rejected_by"`
}

func (s *server) handleApprove(w http.ResponseWriter, r *http.Request) {
	incident, ok := s.get(chi.URLParam(r, "incidentID"))
	if !ok {
		writeError(w, http.StatusNotFound, errIncidentNotFound)
		return
	}
	var req approvalRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	action := s.orch.ApproveAction(incident, chi.URLParam(r, "actionID"), req.ApprovedBy)
	if action == nil {
		writeError(w, http.StatusNotFound, errActionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

func (s *server) handleReject(w http.ResponseWriter, r *http.Request) {
	incident, ok := s.get(chi.URLParam(r, "incidentID"))
	if !ok {
		writeError(w, http.StatusNotFound, errIncidentNotFound)
		return
	}
	var req approvalRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	action := s.orch.RejectAction(incident, chi.URLParam(r, "actionID"), req.RejectedBy)
	if action == nil {
		writeError(w, http.StatusNotFound, errActionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

func (s *server) handleExecute(w http.ResponseWriter, r *http.Request) {
	incident, ok := s.get(chi.URLParam(r, "incidentID"))
	if !ok {
		writeError(w, http.StatusNotFound, errIncidentNotFound)
		return
	}

	executed, err := s.orch.ExecuteApprovedActions(r.Context(), incident)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, executed)
}

type verifyRequest struct {
	MaxAttempts int `json:"max_attempts"`
}

func (s *server) handleVerify(w http.ResponseWriter, r *http.Request) {
	incident, ok := s.get(chi.URLParam(r, "incidentID"))
	if !ok {
		writeError(w, http.StatusNotFound, errIncidentNotFound)
		return
	}
	var req verifyRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.MaxAttempts <= 0 {
		req.MaxAttempts = 1
	}

	result := s.orch.VerifyWithRetry(r.Context(), incident, req.MaxAttempts, defaultVerifyInterval)
	writeJSON(w, http.StatusOK, result)
}

func (s *server) put(incident *types.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents[incident.ID] = incident
}

func (s *server) get(id string) (*types.Incident, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	incident, ok := s.incidents[id]
	return incident, ok
}
