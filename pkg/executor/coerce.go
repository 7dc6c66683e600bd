package executor

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// CoerceToDict is the exported form of coerceToDict, reused by the
// orchestrator package to normalize finding details the same way step
// results are normalized.
func CoerceToDict(v interface{}) map[string]interface{} {
	return coerceToDict(v)
}

// coerceToDict normalizes an arbitrary provider return value into the
// map[string]interface{} shape every StepResult.Result carries, so
// template resolution and the audit trail have a single uniform
// representation regardless of what a given provider method returns.
//
//   - nil            -> {}
//   - map[string]any -> unchanged
//   - struct         -> field-by-field via a JSON round trip
//   - slice          -> {"items": [...each coerced...], "count": N}
//   - anything else  -> {"value": fmt.Sprint(v)}
func coerceToDict(v interface{}) map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}

	if items, ok := asSlice(v); ok {
		coerced := make([]interface{}, len(items))
		for i, item := range items {
			coerced[i] = coerceItem(item)
		}
		return map[string]interface{}{"items": coerced, "count": len(items)}
	}

	if m, ok := structToMap(v); ok {
		return m
	}

	return map[string]interface{}{"value": fmt.Sprint(v)}
}

func coerceItem(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	if m, ok := structToMap(v); ok {
		return m
	}
	return map[string]interface{}{"value": fmt.Sprint(v)}
}

// structToMap round-trips a struct value through encoding/json so its
// exported, tagged fields become a plain map, mirroring the Python
// original's BaseModel.model_dump() fallback for Pydantic payload types.
func structToMap(v interface{}) (map[string]interface{}, bool) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case []map[string]interface{}:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice {
			return nil, false
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
}
