package approval

import (
	"context"
	_ "embed"
	"encoding/json"
	"os"

	"github.com/open-policy-agent/opa/rego"
	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/internal/apperrors"
	"github.com/jordigilh/runbookengine/pkg/types"
)

//go:embed policy.rego
var defaultRegoPolicy string

// RegoPolicy is a PolicyBackend whose threshold decisions come from a
// compiled Rego module instead of the static Policy table, so an
// operator can change the risk -> minimum-approvals mapping by editing
// a policy document rather than rebuilding the binary.
type RegoPolicy struct {
	query  rego.PreparedEvalQuery
	logger *zap.Logger
}

// NewRegoPolicy compiles the Rego module at path into a RegoPolicy. An
// empty path loads the engine's built-in default policy
// (policy.rego, embedded at build time).
func NewRegoPolicy(ctx context.Context, path string, logger *zap.Logger) (*RegoPolicy, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	module := defaultRegoPolicy
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeConfiguration, "failed to read approval policy file").
				WithDetails(path)
		}
		module = string(raw)
	}

	query, err := rego.New(
		rego.Query("data.runbookengine.approval.minimum_approvals"),
		rego.Module("policy.rego", module),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeConfiguration, "failed to compile approval policy")
	}
	return &RegoPolicy{query: query, logger: logger}, nil
}

// For evaluates the compiled policy for risk assuming the action
// requires approval (the Evaluator only consults PolicyFor for actions
// that do; see Evaluator.PolicyFor), and maps the resulting
// minimum-approvals count back to a ThresholdPolicy tier. A policy
// evaluation error is logged and treated as require-two, erring toward
// more scrutiny rather than silently auto-approving.
func (r *RegoPolicy) For(risk types.RiskLevel) types.ThresholdPolicy {
	count, err := r.minimumApprovals(risk)
	if err != nil {
		r.logger.Warn("approval policy evaluation failed, defaulting to require_two", zap.Error(err), zap.String("risk_level", string(risk)))
		return types.PolicyRequireTwo
	}
	switch {
	case count <= 0:
		return types.PolicyAuto
	case count == 1:
		return types.PolicyRequireOne
	default:
		return types.PolicyRequireTwo
	}
}

func (r *RegoPolicy) minimumApprovals(risk types.RiskLevel) (int, error) {
	input := map[string]interface{}{
		"requires_approval": true,
		"risk_level":        string(risk),
	}
	results, err := r.query.Eval(context.Background(), rego.EvalInput(input))
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrorTypeConfiguration, "approval policy evaluation failed")
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return 0, apperrors.NewConfigurationError("approval policy returned no result")
	}
	n, ok := results[0].Expressions[0].Value.(json.Number)
	if !ok {
		return 0, apperrors.Newf(apperrors.ErrorTypeConfiguration,
			"approval policy returned non-numeric minimum_approvals: %v", results[0].Expressions[0].Value)
	}
	count, err := n.Int64()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrorTypeConfiguration, "invalid minimum_approvals value")
	}
	return int(count), nil
}

var _ PolicyBackend = (*RegoPolicy)(nil)
