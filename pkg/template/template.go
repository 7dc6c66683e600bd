// Package template resolves `{{ incident.field }}` and
// `{{ step_id.field }}` placeholders inside runbook step parameters
// against an incident and the accumulated results of prior steps.
package template

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/jordigilh/runbookengine/pkg/types"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([\w.]+)\s*\}\}`)

// resolveFieldPath traverses a dot-separated field path through a Go
// value, following map keys for map[string]interface{} and exported
// struct fields (matched case-insensitively against the dotted path's
// snake_case segment) otherwise. Returns nil if any segment cannot be
// resolved.
func resolveFieldPath(obj interface{}, fieldPath string) interface{} {
	current := obj
	for _, part := range strings.Split(fieldPath, ".") {
		if current == nil {
			return nil
		}
		current = resolveOne(current, part)
	}
	return current
}

func resolveOne(obj interface{}, field string) interface{} {
	switch v := obj.(type) {
	case map[string]interface{}:
		return v[field]
	case types.StepResult:
		return resolveOne(v.Result, field)
	}

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	target := strings.ReplaceAll(strings.Title(strings.ReplaceAll(field, "_", " ")), " ", "")
	fv := rv.FieldByName(target)
	if !fv.IsValid() {
		// Fall back to a case-insensitive scan for fields whose Go name
		// doesn't derive cleanly from the snake_case template segment.
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			if strings.EqualFold(t.Field(i).Name, field) {
				fv = rv.Field(i)
				break
			}
		}
	}
	if !fv.IsValid() || !fv.CanInterface() {
		return nil
	}
	return fv.Interface()
}

// Resolve replaces every `{{ source.field }}` placeholder in value.
// "incident" resolves against the incident argument; any other source
// name is looked up in stepResults. A reference that cannot be
// resolved is left in place verbatim so callers can detect it.
func Resolve(value string, incident *types.Incident, stepResults map[string]interface{}) string {
	return placeholderRe.ReplaceAllStringFunc(value, func(match string) string {
		expr := placeholderRe.FindStringSubmatch(match)[1]
		parts := strings.SplitN(expr, ".", 2)
		if len(parts) != 2 {
			return match
		}
		source, field := parts[0], parts[1]

		var root interface{}
		if source == "incident" {
			root = incident
		} else {
			root = stepResults[source]
			if root == nil {
				return match
			}
		}

		resolved := resolveFieldPath(root, field)
		if resolved == nil {
			return match
		}
		return fmt.Sprint(resolved)
	})
}

// ResolveParams recursively resolves every template placeholder inside
// a params map: strings are resolved directly, nested maps recurse,
// string elements of a list are resolved in place, everything else
// passes through unchanged.
func ResolveParams(params map[string]interface{}, incident *types.Incident, stepResults map[string]interface{}) map[string]interface{} {
	resolved := make(map[string]interface{}, len(params))
	for k, v := range params {
		resolved[k] = resolveValue(v, incident, stepResults)
	}
	return resolved
}

func resolveValue(v interface{}, incident *types.Incident, stepResults map[string]interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return Resolve(val, incident, stepResults)
	case map[string]interface{}:
		return ResolveParams(val, incident, stepResults)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			if s, ok := item.(string); ok {
				out[i] = Resolve(s, incident, stepResults)
			} else {
				out[i] = item
			}
		}
		return out
	default:
		return v
	}
}
