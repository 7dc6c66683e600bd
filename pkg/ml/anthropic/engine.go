// Package anthropic implements types.MLEngine against the Anthropic
// Messages API.
package anthropic

import (
	"context"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/internal/apperrors"
	"github.com/jordigilh/runbookengine/pkg/ml"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// Engine implements types.MLEngine against Claude models via the
// Anthropic Messages API.
type Engine struct {
	client *anthropicsdk.Client
	model  string
	logger *zap.Logger
}

// NewEngine builds an Anthropic-backed ML engine.
func NewEngine(apiKey, model string, logger *zap.Logger) *Engine {
	client := anthropicsdk.NewClient(option.WithAPIKey(apiKey))
	return &Engine{client: &client, model: model, logger: logger}
}

var _ types.MLEngine = (*Engine)(nil)

func (e *Engine) call(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	msg, err := e.client.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(e.model),
		MaxTokens: maxTokens,
		System: []anthropicsdk.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeMLEngine, "anthropic request failed")
	}
	if len(msg.Content) == 0 {
		return "", apperrors.NewMLEngineError("anthropic response contained no content blocks")
	}
	return msg.Content[0].Text, nil
}

func (e *Engine) Classify(ctx context.Context, description string) (types.Classification, error) {
	system, user := ml.BuildClassificationPrompt(description)
	raw, err := e.call(ctx, system, user, 1024)
	if err != nil {
		return types.Classification{}, err
	}
	return ml.ParseClassification(e.logger, raw), nil
}

func (e *Engine) Diagnose(ctx context.Context, description string, findings []types.Finding) (types.DiagnosticResult, error) {
	system, user := ml.BuildDiagnosisPrompt(description, findings)
	raw, err := e.call(ctx, system, user, 2048)
	if err != nil {
		return types.DiagnosticResult{}, err
	}
	return ml.ParseDiagnosticResult(e.logger, raw), nil
}

func (e *Engine) Recommend(ctx context.Context, description string, diagnosis types.DiagnosticResult, findings []types.Finding) (types.RecommendationSet, error) {
	system, user := ml.BuildResolutionPrompt(description, diagnosis, findings)
	raw, err := e.call(ctx, system, user, 2048)
	if err != nil {
		return types.RecommendationSet{}, err
	}
	return ml.ParseRecommendationSet(e.logger, raw), nil
}

func (e *Engine) Summarize(ctx context.Context, incident types.Incident) (string, error) {
	system, user := ml.BuildSummarizationPrompt(incident)
	raw, err := e.call(ctx, system, user, 2048)
	if err != nil {
		return "", err
	}
	return ml.CleanSummary(raw), nil
}
