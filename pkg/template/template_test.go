package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jordigilh/runbookengine/pkg/template"
	"github.com/jordigilh/runbookengine/pkg/types"
)

func TestResolve_IncidentField(t *testing.T) {
	incident := &types.Incident{ID: "INC-abcd1234", Title: "High CPU"}
	got := template.Resolve("incident {{ incident.id }}: {{ incident.title }}", incident, nil)
	assert.Equal(t, "incident INC-abcd1234: High CPU", got)
}

func TestResolve_StepResultField(t *testing.T) {
	stepResults := map[string]interface{}{
		"gather_alerts": map[string]interface{}{"count": 3},
	}
	got := template.Resolve("found {{ gather_alerts.count }} alerts", &types.Incident{}, stepResults)
	assert.Equal(t, "found 3 alerts", got)
}

func TestResolve_UnresolvableLeftVerbatim(t *testing.T) {
	got := template.Resolve("host is {{ incident.nonexistent_field }}", &types.Incident{}, nil)
	assert.Equal(t, "host is {{ incident.nonexistent_field }}", got)
}

func TestResolve_UnknownStepSourceLeftVerbatim(t *testing.T) {
	got := template.Resolve("{{ never_ran.value }}", &types.Incident{}, map[string]interface{}{})
	assert.Equal(t, "{{ never_ran.value }}", got)
}

func TestResolveParams_RecursesThroughNestedStructures(t *testing.T) {
	incident := &types.Incident{ID: "INC-abcd1234"}
	params := map[string]interface{}{
		"hostname": "{{ incident.id }}",
		"nested": map[string]interface{}{
			"tag": "{{ incident.id }}-tag",
		},
		"list":    []interface{}{"{{ incident.id }}", "literal"},
		"untouch": 42,
	}

	resolved := template.ResolveParams(params, incident, nil)
	assert.Equal(t, "INC-abcd1234", resolved["hostname"])
	assert.Equal(t, "INC-abcd1234-tag", resolved["nested"].(map[string]interface{})["tag"])
	assert.Equal(t, []interface{}{"INC-abcd1234", "literal"}, resolved["list"])
	assert.Equal(t, 42, resolved["untouch"])
}
