package types

import "time"

// Finding is a piece of evidence gathered from a provider and attached to
// an incident.
type Finding struct {
	ID         string                 `json:"id"`
	Type       FindingType            `json:"finding_type"`
	Source     string                 `json:"source"`
	Summary    string                 `json:"summary"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Confidence float64                `json:"confidence"`
	Timestamp  time.Time              `json:"timestamp"`
}

// Action is a remediation or notification step the system proposes or
// performs against an incident.
type Action struct {
	ID          string     `json:"id"`
	Type        ActionType `json:"action_type"`
	Description string     `json:"description"`

	RiskLevel        RiskLevel `json:"risk_level"`
	RequiresApproval bool      `json:"requires_approval"`

	// Integration target. Integration and Method are both empty for a
	// purely informational (notify) action.
	Integration string                 `json:"integration,omitempty"`
	Method      string                 `json:"method,omitempty"`
	Params      map[string]interface{} `json:"params,omitempty"`

	// Decision state.
	Approved     ApprovalState `json:"approved"`
	Approvals    []string      `json:"approvals,omitempty"`
	ApprovedBy   string        `json:"approved_by,omitempty"`
	RejectedBy   string        `json:"rejected_by,omitempty"`

	// Execution state.
	ExecutedAt *time.Time             `json:"executed_at,omitempty"`
	Result     map[string]interface{} `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// TimelineEntry is a single append-only audit record on an incident.
// Timestamps across an incident's timeline are monotonically non-decreasing.
type TimelineEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	EventType string                 `json:"event_type"`
	Summary   string                 `json:"summary"`
	Source    string                 `json:"source,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Classification is the ML engine's answer to "what kind of problem is
// this, and how severe".
type Classification struct {
	Category   ProblemCategory `json:"category"`
	Severity   Severity        `json:"severity"`
	Confidence float64         `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
}

// DiagnosticResult is the ML engine's root-cause analysis over gathered
// findings.
type DiagnosticResult struct {
	RootCause            string   `json:"root_cause"`
	EvidenceSummary      string   `json:"evidence_summary"`
	Confidence           float64  `json:"confidence"`
	ContributingFactors  []string `json:"contributing_factors,omitempty"`
	AffectedComponents   []string `json:"affected_components,omitempty"`
}

// ActionRecommendation is a single action suggested by the ML engine,
// before it has been materialized into an Action on an incident.
type ActionRecommendation struct {
	Description      string                 `json:"description"`
	RiskLevel        RiskLevel              `json:"risk_level"`
	RequiresApproval bool                   `json:"requires_approval"`
	Integration      string                 `json:"integration,omitempty"`
	Method           string                 `json:"method,omitempty"`
	Params           map[string]interface{} `json:"params,omitempty"`
	Reasoning        string                 `json:"reasoning,omitempty"`
}

// RecommendationSet is a ranked set of action recommendations produced by
// a single call to the ML engine's Recommend operation.
type RecommendationSet struct {
	Recommendations       []ActionRecommendation `json:"recommendations"`
	Summary                string                 `json:"summary"`
	RequiresImmediateAction bool                  `json:"requires_immediate_action"`
}

// VerificationResult reports whether a verification pass found the
// incident resolved.
type VerificationResult struct {
	Resolved          bool   `json:"resolved"`
	ActiveAlertCount  int    `json:"active_alert_count"`
	ClearedAlertCount int    `json:"cleared_alert_count"`
	Attempts          int    `json:"attempts"`
	Detail            string `json:"detail"`
}

// Incident is the top-level aggregate tracking a single problem report
// through its lifecycle. Callers own the Incident value; the Orchestrator
// and Executor mutate it in place and return it, never retaining it.
type Incident struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`

	Status   IncidentStatus  `json:"status"`
	Category ProblemCategory `json:"category"`
	Severity Severity        `json:"severity"`

	Classification *Classification `json:"classification,omitempty"`

	Findings []Finding       `json:"findings,omitempty"`
	Actions  []Action        `json:"actions,omitempty"`
	Timeline []TimelineEntry `json:"timeline,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	Summary string `json:"summary,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// FindAction returns a pointer to the action with the given ID, or nil.
func (i *Incident) FindAction(actionID string) *Action {
	for idx := range i.Actions {
		if i.Actions[idx].ID == actionID {
			return &i.Actions[idx]
		}
	}
	return nil
}
