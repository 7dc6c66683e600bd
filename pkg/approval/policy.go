// Package approval evaluates human-approval requirements and state
// transitions for incident actions, following a configurable
// risk-tiered threshold policy.
package approval

import "github.com/jordigilh/runbookengine/pkg/types"

// PolicyBackend decides the threshold policy for a risk level. Policy
// is the static, compiled-in implementation; RegoPolicy evaluates an
// OPA Rego module instead, so an operator can change the mapping by
// editing a policy document rather than rebuilding the binary.
type PolicyBackend interface {
	For(risk types.RiskLevel) types.ThresholdPolicy
}

// Policy maps each risk level to a types.ThresholdPolicy. The zero
// value is not usable; construct via DefaultPolicy() or provide every
// field.
type Policy struct {
	Low      types.ThresholdPolicy
	Medium   types.ThresholdPolicy
	High     types.ThresholdPolicy
	Critical types.ThresholdPolicy
}

// DefaultPolicy returns the engine's standard risk-tiered policy:
// low actions auto-approve, medium and high need one approver,
// critical needs two.
func DefaultPolicy() Policy {
	return Policy{
		Low:      types.PolicyAuto,
		Medium:   types.PolicyRequireOne,
		High:     types.PolicyRequireOne,
		Critical: types.PolicyRequireTwo,
	}
}

// For returns the policy configured for a risk level. An unrecognized
// risk level is treated as critical, erring toward more scrutiny
// rather than less.
func (p Policy) For(risk types.RiskLevel) types.ThresholdPolicy {
	switch risk {
	case types.RiskLow:
		return p.Low
	case types.RiskMedium:
		return p.Medium
	case types.RiskHigh:
		return p.High
	case types.RiskCritical:
		return p.Critical
	default:
		return p.Critical
	}
}
