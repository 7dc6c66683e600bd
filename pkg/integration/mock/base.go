package mock

import (
	"context"
	"time"
)

// providerDelays is the per-provider artificial latency injected so
// mock-mode runs feel like they're hitting real network-bound
// integrations.
var providerDelays = map[string]time.Duration{
	"servicenow": 500 * time.Millisecond,
	"datadog":    300 * time.Millisecond,
	"pagerduty":  200 * time.Millisecond,
	"aws":        400 * time.Millisecond,
	"slack":      100 * time.Millisecond,
}

// base is embedded by every mock provider. It holds the active
// scenario and the scenario name it was loaded from, and provides the
// simulated-latency helper shared across providers.
type base struct {
	providerKey  string
	scenarioName string
	delayEnabled bool
	data         scenario
}

func newBase(providerKey, scenarioName string, delayEnabled bool) base {
	return base{
		providerKey:  providerKey,
		scenarioName: scenarioName,
		delayEnabled: delayEnabled,
		data:         lookupScenario(scenarioName),
	}
}

// reload re-reads the active scenario, used after an operator switches
// MOCK_SCENARIO at runtime.
func (b *base) reload(scenarioName string) {
	b.scenarioName = scenarioName
	b.data = lookupScenario(scenarioName)
}

// simulateDelay blocks for the provider's configured latency unless
// delay is disabled, honoring context cancellation.
func (b *base) simulateDelay(ctx context.Context) error {
	if !b.delayEnabled {
		return nil
	}
	delay, ok := providerDelays[b.providerKey]
	if !ok {
		delay = 200 * time.Millisecond
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
