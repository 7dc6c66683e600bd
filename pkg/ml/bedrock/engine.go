// Package bedrock implements types.MLEngine against Anthropic Claude
// models served through AWS Bedrock, for deployments that standardize
// on AWS rather than calling Anthropic directly.
package bedrock

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/internal/apperrors"
	"github.com/jordigilh/runbookengine/pkg/ml"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// Engine implements types.MLEngine against a Claude model hosted on
// Bedrock, using the Anthropic Messages wire format Bedrock's
// InvokeModel API expects for anthropic.* model IDs.
type Engine struct {
	client  *bedrockruntime.Client
	modelID string
	logger  *zap.Logger
}

// NewEngine builds a Bedrock-backed ML engine for the given region and
// model ID (e.g. "anthropic.claude-3-5-sonnet-20241022-v2:0").
func NewEngine(ctx context.Context, region, modelID string, logger *zap.Logger) (*Engine, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeConfiguration, "failed to load AWS config for Bedrock")
	}
	return &Engine{client: bedrockruntime.NewFromConfig(cfg), modelID: modelID, logger: logger}, nil
}

var _ types.MLEngine = (*Engine)(nil)

type bedrockRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system"`
	Messages         []bedrockMessage   `json:"messages"`
}

type bedrockMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type bedrockResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (e *Engine) call(ctx context.Context, system, user string, maxTokens int) (string, error) {
	reqBody, err := json.Marshal(bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		System:           system,
		Messages:         []bedrockMessage{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeMLEngine, "failed to encode Bedrock request")
	}

	out, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		ContentType: aws.String("application/json"),
		Body:        reqBody,
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeMLEngine, "Bedrock InvokeModel failed")
	}

	var resp bedrockResponse
	if err := json.NewDecoder(bytes.NewReader(out.Body)).Decode(&resp); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeMLEngine, "failed to decode Bedrock response")
	}
	if len(resp.Content) == 0 {
		return "", apperrors.NewMLEngineError("Bedrock response contained no content blocks")
	}
	return resp.Content[0].Text, nil
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
