package executor

import (
	"context"
	"fmt"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// Invoke is the exported form of invoke, reused by the orchestrator
// package to dispatch a direct Action execution through the same
// category/method switch the runbook step executor uses.
func Invoke(ctx context.Context, category types.IntegrationCategory, provider interface{}, method string, params map[string]interface{}) (interface{}, error) {
	return invoke(ctx, category, provider, method, params)
}

// invoke dispatches a resolved step's (integration, method, params) onto
// the concrete provider the registry handed back. Go interfaces don't
// support dynamic getattr(provider, method)(**params)-style dispatch, so
// the actual call is an explicit switch per category below — but method
// is checked against types.ValidMethods first, the same shared table
// pkg/runbook validates a parsed step against, so the allow-list itself
// lives in exactly one place.
func invoke(ctx context.Context, category types.IntegrationCategory, provider interface{}, method string, params map[string]interface{}) (interface{}, error) {
	if !types.ValidMethods[category][method] {
		return nil, fmt.Errorf("method %q not found on %s provider", method, category)
	}

	switch category {
	case types.CatTicketing:
		p, ok := provider.(types.TicketingProvider)
		if !ok {
			return nil, fmt.Errorf("provider does not implement TicketingProvider")
		}
		return invokeTicketing(ctx, p, method, params)
	case types.CatMonitoring:
		p, ok := provider.(types.MonitoringProvider)
		if !ok {
			return nil, fmt.Errorf("provider does not implement MonitoringProvider")
		}
		return invokeMonitoring(ctx, p, method, params)
	case types.CatAlerting:
		p, ok := provider.(types.AlertingProvider)
		if !ok {
			return nil, fmt.Errorf("provider does not implement AlertingProvider")
		}
		return invokeAlerting(ctx, p, method, params)
	case types.CatCompute:
		p, ok := provider.(types.ComputeProvider)
		if !ok {
			return nil, fmt.Errorf("provider does not implement ComputeProvider")
		}
		return invokeCompute(ctx, p, method, params)
	case types.CatCommunication:
		p, ok := provider.(types.CommunicationProvider)
		if !ok {
			return nil, fmt.Errorf("provider does not implement CommunicationProvider")
		}
		return invokeCommunication(ctx, p, method, params)
	default:
		return nil, fmt.Errorf("unknown integration category %q", category)
	}
}

func invokeTicketing(ctx context.Context, p types.TicketingProvider, method string, params map[string]interface{}) (interface{}, error) {
	switch method {
	case "get_incident":
		return p.GetIncident(ctx, str(params, "id"))
	case "create_incident":
		req := types.CreateIncidentRequest{
			ShortDescription: str(params, "short_description"),
			Severity:         types.Severity(str(params, "severity")),
			Category:         types.ProblemCategory(str(params, "category")),
		}
		return p.CreateIncident(ctx, req)
	case "update_incident":
		return p.UpdateIncident(ctx, str(params, "id"), mapField(params, "updates"))
	case "get_recent_changes":
		return p.GetRecentChanges(ctx, str(params, "timeframe"))
	case "add_work_note":
		return nil, p.AddWorkNote(ctx, str(params, "id"), str(params, "note"))
	case "search_knowledge_base":
		return p.SearchKnowledgeBase(ctx, str(params, "query"))
	default:
		return nil, fmt.Errorf("method %q not found on ticketing provider", method)
	}
}

func invokeMonitoring(ctx context.Context, p types.MonitoringProvider, method string, params map[string]interface{}) (interface{}, error) {
	switch method {
	case "get_current_alerts":
		return p.GetCurrentAlerts(ctx, mapField(params, "filters"))
	case "get_metrics":
		q := types.MetricQuery{
			MetricName: str(params, "metric_name"),
			Host:       str(params, "hostname"),
		}
		return p.GetMetrics(ctx, q)
	case "get_logs":
		q := types.LogQuery{
			Host:    str(params, "hostname"),
			Service: str(params, "service"),
			Query:   str(params, "query"),
			Limit:   intField(params, "limit"),
		}
		return p.GetLogs(ctx, q)
	case "get_host_info":
		return p.GetHostInfo(ctx, str(params, "hostname"))
	case "get_top_processes":
		return p.GetTopProcesses(ctx, str(params, "hostname"), intField(params, "limit"))
	default:
		return nil, fmt.Errorf("method %q not found on monitoring provider", method)
	}
}

func invokeAlerting(ctx context.Context, p types.AlertingProvider, method string, params map[string]interface{}) (interface{}, error) {
	switch method {
	case "get_active_incidents":
		return p.GetActiveIncidents(ctx)
	case "get_on_call":
		return p.GetOnCall(ctx, str(params, "schedule"))
	case "trigger_alert":
		req := types.AlertRequest{
			Title:       str(params, "title"),
			Description: str(params, "description"),
			Severity:    types.Severity(str(params, "severity")),
			Service:     str(params, "service"),
		}
		return nil, p.TriggerAlert(ctx, req)
	case "acknowledge_alert":
		return nil, p.AcknowledgeAlert(ctx, str(params, "id"))
	default:
		return nil, fmt.Errorf("method %q not found on alerting provider", method)
	}
}

func invokeCompute(ctx context.Context, p types.ComputeProvider, method string, params map[string]interface{}) (interface{}, error) {
	switch method {
	case "get_host_info":
		return p.GetHostInfo(ctx, str(params, "hostname"))
	case "get_top_processes":
		return p.GetTopProcesses(ctx, str(params, "hostname"), intField(params, "limit"))
	case "restart_service":
		return p.RestartService(ctx, str(params, "hostname"), str(params, "service"), mapField(params, "params"))
	default:
		return nil, fmt.Errorf("method %q not found on compute provider", method)
	}
}

func invokeCommunication(ctx context.Context, p types.CommunicationProvider, method string, params map[string]interface{}) (interface{}, error) {
	switch method {
	case "send_message":
		return nil, p.SendMessage(ctx, str(params, "channel"), str(params, "message"))
	case "create_channel":
		return p.CreateChannel(ctx, str(params, "name"), str(params, "purpose"))
	case "get_recent_messages":
		return p.GetRecentMessages(ctx, str(params, "channel"), intField(params, "limit"))
	default:
		return nil, fmt.Errorf("method %q not found on communication provider", method)
	}
}

func str(params map[string]interface{}, key string) string {
	v, _ := params[key].(string)
	return v
}

func intField(params map[string]interface{}, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func mapField(params map[string]interface{}, key string) map[string]interface{} {
	if m, ok := params[key].(map[string]interface{}); ok {
		return m
	}
	return nil
}
