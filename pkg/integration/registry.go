// Package integration resolves and caches provider instances per
// capability category, choosing between the mock backend and a live
// adapter per category, and wraps every live call in a circuit
// breaker.
package integration

import (
	"context"
	"sync"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/jordigilh/runbookengine/internal/apperrors"
	"github.com/jordigilh/runbookengine/internal/config"
	"github.com/jordigilh/runbookengine/pkg/integration/communication"
	"github.com/jordigilh/runbookengine/pkg/integration/compute"
	"github.com/jordigilh/runbookengine/pkg/integration/httpadapter"
	"github.com/jordigilh/runbookengine/pkg/integration/mock"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// modeToIntegration maps a concrete integration name to the category it
// belongs to, so a per-integration env override (e.g. SLACK_MODE=live)
// can be resolved back to its category.
var modeToIntegration = map[types.IntegrationCategory][]string{
	types.CatTicketing:     {"servicenow", "jira"},
	types.CatMonitoring:    {"datadog"},
	types.CatAlerting:      {"pagerduty"},
	types.CatCompute:       {"aws"},
	types.CatCommunication: {"slack"},
}

// Registry resolves and caches provider instances per category for its
// own lifetime. A single Registry is meant to be shared across an
// Orchestrator's concurrent calls.
type Registry struct {
	cfg *config.Config

	mu       sync.RWMutex
	cache    map[types.IntegrationCategory]interface{}
	breakers map[types.IntegrationCategory]*gobreaker.CircuitBreaker
	group    singleflight.Group
}

// NewRegistry builds a Registry bound to cfg. Providers are constructed
// lazily on first GetProvider call.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		cfg:      cfg,
		cache:    make(map[types.IntegrationCategory]interface{}),
		breakers: make(map[types.IntegrationCategory]*gobreaker.CircuitBreaker),
	}
}

// resolveMode determines which concrete integration backs a category:
// the first integration under that category with a non-mock mode
// override, or "mock" if none is set. Iteration follows the stable
// order in modeToIntegration so two simultaneous overrides resolve
// deterministically.
func (r *Registry) resolveMode(category types.IntegrationCategory) string {
	for _, integrationKey := range modeToIntegration[category] {
		if mode := r.cfg.GetIntegrationMode(integrationKey); mode != "" && mode != "mock" {
			return integrationKey
		}
	}
	return "mock"
}

// GetProvider returns the cached provider instance for category,
// constructing it on first access. The returned value must be
// type-asserted by the caller to the capability interface it expects
// (types.TicketingProvider, types.MonitoringProvider, etc).
//
// Concurrent calls for the same category are coalesced via
// singleflight so a concurrent fan-out (see pkg/orchestrator) never
// constructs the same provider twice.
func (r *Registry) GetProvider(ctx context.Context, category types.IntegrationCategory) (interface{}, error) {
	r.mu.RLock()
	if p, ok := r.cache[category]; ok {
		r.mu.RUnlock()
		return p, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do(string(category), func() (interface{}, error) {
		r.mu.RLock()
		if p, ok := r.cache[category]; ok {
			r.mu.RUnlock()
			return p, nil
		}
		r.mu.RUnlock()

		provider, err := r.construct(category)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[category] = provider
		r.mu.Unlock()
		return provider, nil
	})
	return v, err
}

func (r *Registry) construct(category types.IntegrationCategory) (interface{}, error) {
	found := false
	for _, c := range types.AllCategories {
		if c == category {
			found = true
			break
		}
	}
	if !found {
		return nil, apperrors.NewProviderNotFound(string(category))
	}

	mode := r.resolveMode(category)
	scenario := r.cfg.Mock.Scenario
	delay := r.cfg.Mock.DelayEnabled

	switch category {
	case types.CatTicketing:
		switch mode {
		case "mock":
			return mock.NewServiceNow(scenario, delay), nil
		case "servicenow":
			return httpadapter.NewServiceNow(r.cfg.ServiceNow), nil
		case "jira":
			return httpadapter.NewJira(r.cfg.Jira), nil
		}
	case types.CatMonitoring:
		switch mode {
		case "mock":
			return mock.NewDatadog(scenario, delay), nil
		case "datadog":
			return httpadapter.NewDatadog(r.cfg.Datadog), nil
		}
	case types.CatAlerting:
		switch mode {
		case "mock":
			return mock.NewPagerDuty(scenario, delay), nil
		case "pagerduty":
			return httpadapter.NewPagerDuty(r.cfg.PagerDuty), nil
		}
	case types.CatCompute:
		switch mode {
		case "mock":
			return mock.NewAWS(scenario, delay), nil
		case "aws":
			return compute.NewAWSClient(context.Background(), r.cfg.AWS)
		}
	case types.CatCommunication:
		switch mode {
		case "mock":
			return mock.NewSlack(scenario, delay), nil
		case "slack":
			return communication.NewSlackClient(r.cfg.Slack)
		}
	}
	return nil, apperrors.NewProviderNotFound(string(category), mode)
}

// Reset clears the provider cache, forcing re-resolution (and, for a
// live provider, a fresh connection) on next access.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[types.IntegrationCategory]interface{})
}

// Breaker returns the circuit breaker guarding calls to category's
// provider, creating one on first use. Settings favor tripping fast on
// a flapping upstream: 5 consecutive failures open the circuit for 30s.
func (r *Registry) Breaker(category types.IntegrationCategory) *gobreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[category]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: string(category),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	r.breakers[category] = b
	return b
}

// Call invokes fn through category's circuit breaker, translating a
// tripped-breaker error into an IntegrationError.
func (r *Registry) Call(category types.IntegrationCategory, fn func() (interface{}, error)) (interface{}, error) {
	result, err := r.Breaker(category).Execute(fn)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeIntegration, "provider call failed").
			WithDetails(string(category))
	}
	return result, nil
}
