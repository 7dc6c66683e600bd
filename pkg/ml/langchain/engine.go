// Package langchain implements types.MLEngine via langchaingo, as a
// provider-agnostic backend for deployments that want to point the ML
// capability at whatever LLM their langchaingo configuration already
// targets (OpenAI, local models, etc) without a dedicated adapter.
package langchain

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/internal/apperrors"
	"github.com/jordigilh/runbookengine/pkg/ml"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// Engine implements types.MLEngine over any langchaingo llms.Model.
type Engine struct {
	model  llms.Model
	logger *zap.Logger
}

// NewEngine builds a langchaingo-backed ML engine over an
// already-configured model.
func NewEngine(model llms.Model, logger *zap.Logger) *Engine {
	return &Engine{model: model, logger: logger}
}

var _ types.MLEngine = (*Engine)(nil)

func (e *Engine) call(ctx context.Context, system, user string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	resp, err := e.model.GenerateContent(ctx, content)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeMLEngine, "langchain model call failed")
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewMLEngineError("langchain model returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func (e *Engine) Classify(ctx context.Context, description string) (types.Classification, error) {
	system, user := ml.BuildClassificationPrompt(description)
	raw, err := e.call(ctx, system, user)
	if err != nil {
		return types.Classification{}, err
	}
	return ml.ParseClassification(e.logger, raw), nil
}

func (e *Engine) Diagnose(ctx context.Context, description string, findings []types.Finding) (types.DiagnosticResult, error) {
	system, user := ml.BuildDiagnosisPrompt(description, findings)
	raw, err := e.call(ctx, system, user)
	if err != nil {
		return types.DiagnosticResult{}, err
	}
	return ml.ParseDiagnosticResult(e.logger, raw), nil
}

func (e *Engine) Recommend(ctx context.Context, description string, diagnosis types.DiagnosticResult, findings []types.Finding) (types.RecommendationSet, error) {
	system, user := ml.BuildResolutionPrompt(description, diagnosis, findings)
	raw, err := e.call(ctx, system, user)
	if err != nil {
		return types.RecommendationSet{}, err
	}
	return ml.ParseRecommendationSet(e.logger, raw), nil
}

func (e *Engine) Summarize(ctx context.Context, incident types.Incident) (string, error) {
	system, user := ml.BuildSummarizationPrompt(incident)
	raw, err := e.call(ctx, system, user)
	if err != nil {
		return "", err
	}
	return ml.CleanSummary(raw), nil
}
