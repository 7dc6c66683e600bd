package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordigilh/runbookengine/pkg/metrics"
)

func TestNew_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)
	require.NotNil(t, c)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["runbook_step_outcomes_total"])
	assert.True(t, names["runbook_step_duration_seconds"])
	assert.True(t, names["incidents_by_status_total"])
	assert.True(t, names["verification_rounds"])
}

func TestNoop_DoesNotPanicAndIsIndependentPerCall(t *testing.T) {
	a := metrics.Noop()
	b := metrics.Noop()
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotSame(t, a, b)

	a.StepOutcomes.WithLabelValues("restart_service", "success").Inc()
}
