// Package wiring assembles the engine's top-level components (ML
// engine, integration registry, approval evaluator, metrics, logger)
// from a validated config.Config, shared by every cmd entrypoint so the
// wiring logic itself isn't duplicated between runbookctl and
// runbook-api.
package wiring

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/internal/config"
	"github.com/jordigilh/runbookengine/pkg/approval"
	"github.com/jordigilh/runbookengine/pkg/integration"
	"github.com/jordigilh/runbookengine/pkg/metrics"
	"github.com/jordigilh/runbookengine/pkg/ml/anthropic"
	"github.com/jordigilh/runbookengine/pkg/ml/bedrock"
	"github.com/jordigilh/runbookengine/pkg/ml/langchain"
	mlmock "github.com/jordigilh/runbookengine/pkg/ml/mock"
	"github.com/jordigilh/runbookengine/pkg/orchestrator"
)

// idempotencyTTL comfortably covers a crash-and-retry window for the
// longest action the engine is expected to run.
const idempotencyTTL = 24 * time.Hour

// NewLogger builds the zap logger the rest of the engine shares,
// switching between the production JSON encoder and a human-readable
// console encoder per cfg.Logging.Format.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zcfg.Level = level
	return zcfg.Build()
}

// NewMLEngine constructs the configured ML backend.
func NewMLEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (orchestrator.MLEngine, error) {
	switch cfg.ML.Provider {
	case "anthropic":
		return anthropic.NewEngine(cfg.ML.AnthropicKey, cfg.ML.Model, logger), nil
	case "bedrock":
		return bedrock.NewEngine(ctx, cfg.ML.BedrockRegion, cfg.ML.Model, logger)
	case "langchain":
		opts := []openai.Option{openai.WithModel(cfg.ML.Model)}
		if cfg.ML.LangchainAPIKey != "" {
			opts = append(opts, openai.WithToken(cfg.ML.LangchainAPIKey))
		}
		if cfg.ML.LangchainBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ML.LangchainBaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to build langchain model: %w", err)
		}
		return langchain.NewEngine(model, logger), nil
	case "mock":
		return mlmock.NewEngine(cfg.Mock.Scenario), nil
	default:
		return nil, fmt.Errorf("unknown ML_ENGINE_PROVIDER %q", cfg.ML.Provider)
	}
}

// NewMetrics builds a metrics.Collector registered against the default
// Prometheus registry.
func NewMetrics() *metrics.Collector {
	return metrics.New(prometheus.DefaultRegisterer)
}

// NewOrchestrator assembles a full Orchestrator from cfg, wiring in an
// optional Redis-backed idempotency cache when cfg.Redis.Addr is set.
func NewOrchestrator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*orchestrator.Orchestrator, error) {
	ml, err := NewMLEngine(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := integration.NewRegistry(cfg)
	evaluator, err := newApprovalEvaluator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	collector := NewMetrics()

	o := orchestrator.New(registry, ml, evaluator, collector, logger)

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		o = o.WithIdempotencyCache(orchestrator.NewIdempotencyCache(client, idempotencyTTL))
	}

	return o, nil
}

// newApprovalEvaluator builds the Approval Evaluator's threshold-policy
// backend per cfg.Approval.Backend: the compiled-in Policy table by
// default, or a RegoPolicy compiled from cfg.Approval.RegoPolicyPath
// (falling back to the engine's embedded default policy) when set to
// "rego".
func newApprovalEvaluator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*approval.Evaluator, error) {
	if cfg.Approval.Backend != "rego" {
		return approval.NewDefaultEvaluator(), nil
	}
	policy, err := approval.NewRegoPolicy(ctx, cfg.Approval.RegoPolicyPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build rego approval policy: %w", err)
	}
	return approval.NewEvaluator(policy), nil
}
