package ml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/pkg/ml"
	"github.com/jordigilh/runbookengine/pkg/types"
)

var testLogger = zap.NewNop()

func TestParseClassification_ValidJSON(t *testing.T) {
	raw := `{"category": "database", "severity": "critical", "confidence": 0.91, "reasoning": "connection pool exhaustion"}`
	c := ml.ParseClassification(testLogger, raw)

	assert.Equal(t, types.CategoryDatabase, c.Category)
	assert.Equal(t, types.SeverityCritical, c.Severity)
	assert.Equal(t, 0.91, c.Confidence)
}

func TestParseClassification_StripsMarkdownFence(t *testing.T) {
	raw := "```json\n{\"category\": \"network\", \"severity\": \"high\", \"confidence\": 0.7, \"reasoning\": \"latency spike\"}\n```"
	c := ml.ParseClassification(testLogger, raw)
	assert.Equal(t, types.CategoryNetwork, c.Category)
}

func TestParseClassification_DegradesOnInvalidJSON(t *testing.T) {
	c := ml.ParseClassification(testLogger, "not json at all")

	assert.Equal(t, types.CategoryUnknown, c.Category)
	assert.Equal(t, types.SeverityMedium, c.Severity)
	assert.Equal(t, 0.0, c.Confidence)
	assert.Contains(t, c.Reasoning, "Parse error")
}

func TestParseDiagnosticResult_ValidJSON(t *testing.T) {
	raw := `{"root_cause": "disk full", "evidence_summary": "disk at 100%", "confidence": 0.8, "contributing_factors": ["log growth"], "affected_components": ["db-01"]}`
	d := ml.ParseDiagnosticResult(testLogger, raw)

	assert.Equal(t, "disk full", d.RootCause)
	assert.Equal(t, []string{"log growth"}, d.ContributingFactors)
}

func TestParseDiagnosticResult_DegradesOnInvalidJSON(t *testing.T) {
	d := ml.ParseDiagnosticResult(testLogger, "{broken")
	assert.Equal(t, 0.0, d.Confidence)
	assert.Contains(t, d.RootCause, "Parse error")
}

func TestParseRecommendationSet_ValidJSON(t *testing.T) {
	raw := `{
		"recommendations": [
			{"description": "restart service", "risk_level": "medium", "requires_approval": true, "integration": "aws", "method": "RestartService"}
		],
		"summary": "restart and monitor",
		"requires_immediate_action": true
	}`
	rs := ml.ParseRecommendationSet(testLogger, raw)

	assert.Len(t, rs.Recommendations, 1)
	assert.Equal(t, types.RiskMedium, rs.Recommendations[0].RiskLevel)
	assert.True(t, rs.RequiresImmediateAction)
}

func TestParseRecommendationSet_DegradesOnInvalidJSON(t *testing.T) {
	rs := ml.ParseRecommendationSet(testLogger, "nonsense")
	assert.Empty(t, rs.Recommendations)
	assert.Contains(t, rs.Summary, "Parse error")
}

func TestCleanSummary_StripsLeadingHeading(t *testing.T) {
	raw := "# Incident Summary\nEverything is fine now."
	assert.Equal(t, "Everything is fine now.", ml.CleanSummary(raw))
}
