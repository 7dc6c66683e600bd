// Package ml defines the shared response-parsing and degrade-on-failure
// logic every MLEngine backend uses: an LLM response is expected to be
// a JSON object (optionally fenced in markdown), and a response that
// fails to parse degrades to a zero-confidence default rather than
// propagating an error up through the orchestrator.
package ml

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// extractJSON strips an optional markdown code fence from a raw LLM
// response and unmarshals the remainder as a JSON object.
func extractJSON(raw string) (map[string]interface{}, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		kept := lines[:0]
		for _, l := range lines {
			if strings.HasPrefix(strings.TrimSpace(l), "```") {
				continue
			}
			kept = append(kept, l)
		}
		text = strings.Join(kept, "\n")
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func stringField(data map[string]interface{}, key, fallback string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return fallback
}

func floatField(data map[string]interface{}, key string, fallback float64) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err == nil {
			return f
		}
	}
	return fallback
}

func boolField(data map[string]interface{}, key string, fallback bool) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return fallback
}

func stringSliceField(data map[string]interface{}, key string) []string {
	raw, ok := data[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func mapField(data map[string]interface{}, key string) map[string]interface{} {
	if v, ok := data[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}

// ParseClassification parses an LLM response into a Classification,
// degrading to ProblemCategory "unknown" / Severity "medium" at
// zero confidence on any parse failure.
func ParseClassification(logger *zap.Logger, raw string) types.Classification {
	data, err := extractJSON(raw)
	if err != nil {
		logger.Warn("failed to parse classification response", zap.Error(err))
		return types.Classification{
			Category:   types.CategoryUnknown,
			Severity:   types.SeverityMedium,
			Confidence: 0,
			Reasoning:  fmt.Sprintf("Parse error: %v. Raw response: %s", err, truncate(raw, 200)),
		}
	}
	return types.Classification{
		Category:   types.ProblemCategory(stringField(data, "category", "unknown")),
		Severity:   types.Severity(stringField(data, "severity", "medium")),
		Confidence: floatField(data, "confidence", 0),
		Reasoning:  stringField(data, "reasoning", ""),
	}
}

// ParseDiagnosticResult parses an LLM response into a DiagnosticResult,
// degrading to a zero-confidence placeholder on any parse failure.
func ParseDiagnosticResult(logger *zap.Logger, raw string) types.DiagnosticResult {
	data, err := extractJSON(raw)
	if err != nil {
		logger.Warn("failed to parse diagnostic result", zap.Error(err))
		return types.DiagnosticResult{
			RootCause:       "Parse error — raw response available",
			EvidenceSummary: truncate(raw, 500),
			Confidence:      0,
		}
	}
	return types.DiagnosticResult{
		RootCause:           stringField(data, "root_cause", "Unknown"),
		EvidenceSummary:     stringField(data, "evidence_summary", ""),
		Confidence:          floatField(data, "confidence", 0),
		ContributingFactors: stringSliceField(data, "contributing_factors"),
		AffectedComponents:  stringSliceField(data, "affected_components"),
	}
}

// ParseRecommendationSet parses an LLM response into a
// RecommendationSet, degrading to an empty recommendation list with an
// explanatory summary on any parse failure.
func ParseRecommendationSet(logger *zap.Logger, raw string) types.RecommendationSet {
	data, err := extractJSON(raw)
	if err != nil {
		logger.Warn("failed to parse recommendation response", zap.Error(err))
		return types.RecommendationSet{
			Summary: fmt.Sprintf("Parse error: %v. Raw response: %s", err, truncate(raw, 200)),
		}
	}

	rawRecs, _ := data["recommendations"].([]interface{})
	recs := make([]types.ActionRecommendation, 0, len(rawRecs))
	for _, r := range rawRecs {
		rm, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		recs = append(recs, types.ActionRecommendation{
			Description:      stringField(rm, "description", ""),
			RiskLevel:         types.RiskLevel(stringField(rm, "risk_level", "low")),
			RequiresApproval:  boolField(rm, "requires_approval", false),
			Integration:       stringField(rm, "integration", ""),
			Method:            stringField(rm, "method", ""),
			Params:            mapField(rm, "params"),
			Reasoning:         stringField(rm, "reasoning", ""),
		})
	}

	return types.RecommendationSet{
		Recommendations:         recs,
		Summary:                 stringField(data, "summary", ""),
		RequiresImmediateAction: boolField(data, "requires_immediate_action", false),
	}
}
