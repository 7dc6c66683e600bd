package mock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordigilh/runbookengine/pkg/ml/mock"
	"github.com/jordigilh/runbookengine/pkg/types"
)

func TestEngine_Classify_KnownScenario(t *testing.T) {
	e := mock.NewEngine("high_cpu")
	c, err := e.Classify(context.Background(), "web tier is slow")
	require.NoError(t, err)
	assert.Equal(t, types.CategoryCompute, c.Category)
	assert.Equal(t, types.SeverityHigh, c.Severity)
}

func TestEngine_Classify_UnknownScenarioDegrades(t *testing.T) {
	e := mock.NewEngine("not_a_real_scenario")
	c, err := e.Classify(context.Background(), "something broke")
	require.NoError(t, err)
	assert.Equal(t, types.CategoryUnknown, c.Category)
	assert.Less(t, c.Confidence, 0.5)
}

func TestEngine_Recommend_ReturnsActionableSet(t *testing.T) {
	e := mock.NewEngine("database_connection")
	rs, err := e.Recommend(context.Background(), "db errors", types.DiagnosticResult{}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, rs.Recommendations)
	assert.True(t, rs.RequiresImmediateAction)
}

func TestEngine_Summarize_IncludesIncidentID(t *testing.T) {
	e := mock.NewEngine("high_cpu")
	summary, err := e.Summarize(context.Background(), types.Incident{ID: "INC-test1234", Title: "High CPU", Status: types.IncidentDiagnosing, Severity: types.SeverityHigh})
	require.NoError(t, err)
	assert.Contains(t, summary, "INC-test1234")
}
