package ml

import (
	"fmt"
	"strings"

	"github.com/jordigilh/runbookengine/pkg/types"
)

const classificationSystemPrompt = `You are an expert IT operations analyst. Your job is to classify incoming problem reports into a category and severity level.

Respond ONLY with valid JSON in this exact format:
{
  "category": "<one of: compute, network, database, deployment, storage, security, application, unknown>",
  "severity": "<one of: low, medium, high, critical>",
  "confidence": <float between 0.0 and 1.0>,
  "reasoning": "<one sentence explaining your classification>"
}`

const diagnosisSystemPrompt = `You are an expert IT operations analyst performing root cause analysis. You will be given a problem description and operational evidence gathered from monitoring, ticketing, and infrastructure systems.

Analyze the evidence and determine the most likely root cause.

Respond ONLY with valid JSON in this exact format:
{
  "root_cause": "<concise description of the root cause>",
  "evidence_summary": "<summary of the key evidence that supports your conclusion>",
  "confidence": <float between 0.0 and 1.0>,
  "contributing_factors": ["<factor 1>", "<factor 2>", ...],
  "affected_components": ["<component 1>", "<component 2>", ...]
}`

const resolutionSystemPrompt = `You are an expert IT operations analyst recommending remediation actions. You will be given a problem description, a root-cause diagnosis, and supporting evidence.

Respond ONLY with valid JSON in this exact format:
{
  "recommendations": [
    {
      "description": "<what the action does>",
      "risk_level": "<one of: low, medium, high, critical>",
      "requires_approval": <true|false>,
      "integration": "<integration name, or null>",
      "method": "<method name, or null>",
      "params": {},
      "reasoning": "<why this action is recommended>"
    }
  ],
  "summary": "<one paragraph overview of the recommended response>",
  "requires_immediate_action": <true|false>
}`

const summarizationSystemPrompt = `You are an expert IT operations analyst writing an incident summary for a post-incident review. Write clear, concise prose. Do not include a markdown heading.`

// BuildClassificationPrompt returns the (system, user) pair for a
// classification call.
func BuildClassificationPrompt(description string) (string, string) {
	return classificationSystemPrompt, "Classify the following problem report:\n\n" + description
}

// BuildDiagnosisPrompt returns the (system, user) pair for a diagnosis
// call, rendering findings as a flat evidence block.
func BuildDiagnosisPrompt(description string, findings []types.Finding) (string, string) {
	user := fmt.Sprintf("PROBLEM:\n%s\n\n%s\n\nBased on the evidence above, determine the root cause.",
		description, formatFindings(findings))
	return diagnosisSystemPrompt, user
}

// BuildResolutionPrompt returns the (system, user) pair for a
// recommendation call.
func BuildResolutionPrompt(description string, diagnosis types.DiagnosticResult, findings []types.Finding) (string, string) {
	user := fmt.Sprintf(
		"PROBLEM:\n%s\n\nDIAGNOSIS:\nRoot cause: %s\nConfidence: %.2f\n\n%s\n\nRecommend a prioritized set of remediation actions.",
		description, diagnosis.RootCause, diagnosis.Confidence, formatFindings(findings))
	return resolutionSystemPrompt, user
}

// BuildSummarizationPrompt returns the (system, user) pair for a
// summarization call.
func BuildSummarizationPrompt(incident types.Incident) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Incident: %s\n", incident.Title)
	fmt.Fprintf(&b, "Status: %s\n", incident.Status)
	if incident.Classification != nil {
		fmt.Fprintf(&b, "Classification: %s / %s\n", incident.Classification.Category, incident.Classification.Severity)
	}
	fmt.Fprintf(&b, "\nTimeline:\n")
	for _, t := range incident.Timeline {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", t.Timestamp.Format("15:04:05"), t.EventType, t.Summary)
	}
	return summarizationSystemPrompt, b.String()
}

func formatFindings(findings []types.Finding) string {
	if len(findings) == 0 {
		return "EVIDENCE:\n(none gathered)"
	}
	var b strings.Builder
	b.WriteString("EVIDENCE:\n")
	for _, f := range findings {
		fmt.Fprintf(&b, "- [%s] %s (source: %s, confidence: %.2f)\n", f.Type, f.Summary, f.Source, f.Confidence)
	}
	return b.String()
}

// CleanSummary strips a leading markdown heading from a raw
// summarization response so the stored summary starts with prose.
func CleanSummary(raw string) string {
	text := strings.TrimSpace(raw)
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#") {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
