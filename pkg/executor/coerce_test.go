package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jordigilh/runbookengine/pkg/types"
)

func TestCoerceToDict_Nil(t *testing.T) {
	assert.Equal(t, map[string]interface{}{}, coerceToDict(nil))
}

func TestCoerceToDict_MapPassesThrough(t *testing.T) {
	m := map[string]interface{}{"a": 1}
	assert.Equal(t, m, coerceToDict(m))
}

func TestCoerceToDict_StructRoundTrips(t *testing.T) {
	d := coerceToDict(types.HostInfo{Hostname: "prod-web-01", State: "running"})
	assert.Equal(t, "prod-web-01", d["hostname"])
	assert.Equal(t, "running", d["state"])
}

func TestCoerceToDict_SliceBecomesItemsAndCount(t *testing.T) {
	alerts := []types.Alert{{ID: "a1", Name: "cpu-high"}, {ID: "a2", Name: "disk-full"}}
	d := coerceToDict(alerts)
	assert.Equal(t, 2, d["count"])
	items, ok := d["items"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, items, 2)
}

func TestCoerceToDict_ScalarBecomesValue(t *testing.T) {
	d := coerceToDict(42)
	assert.Equal(t, "42", d["value"])
}
