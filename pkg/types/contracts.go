package types

import "context"

// TicketingProvider is the capability contract for incident/ticket
// management systems (e.g. ServiceNow, Jira).
type TicketingProvider interface {
	GetIncident(ctx context.Context, id string) (TicketRecord, error)
	CreateIncident(ctx context.Context, req CreateIncidentRequest) (TicketRecord, error)
	UpdateIncident(ctx context.Context, id string, updates map[string]interface{}) (TicketRecord, error)
	GetRecentChanges(ctx context.Context, timeframe string) ([]ChangeRecord, error)
	AddWorkNote(ctx context.Context, id string, note string) error
	SearchKnowledgeBase(ctx context.Context, query string) ([]KBArticle, error)
}

// MonitoringProvider is the capability contract for monitoring /
// observability systems (e.g. Datadog, CloudWatch).
type MonitoringProvider interface {
	GetCurrentAlerts(ctx context.Context, filters map[string]interface{}) ([]Alert, error)
	GetMetrics(ctx context.Context, query MetricQuery) (MetricTimeSeries, error)
	GetLogs(ctx context.Context, query LogQuery) ([]LogEntry, error)
	GetHostInfo(ctx context.Context, hostname string) (HostInfo, error)
	GetTopProcesses(ctx context.Context, hostname string, limit int) ([]ProcessInfo, error)
}

// AlertingProvider is the capability contract for alerting / on-call
// systems (e.g. PagerDuty).
type AlertingProvider interface {
	GetActiveIncidents(ctx context.Context) ([]PagerIncident, error)
	GetOnCall(ctx context.Context, schedule string) (OnCallInfo, error)
	TriggerAlert(ctx context.Context, req AlertRequest) error
	AcknowledgeAlert(ctx context.Context, id string) error
}

// ComputeProvider is the capability contract for compute / infrastructure
// systems (e.g. AWS EC2, SSH).
type ComputeProvider interface {
	GetHostInfo(ctx context.Context, hostname string) (HostInfo, error)
	GetTopProcesses(ctx context.Context, hostname string, limit int) ([]ProcessInfo, error)
	RestartService(ctx context.Context, hostname, service string, params map[string]interface{}) (map[string]interface{}, error)
}

// CommunicationProvider is the capability contract for communication /
// notification systems (e.g. Slack).
type CommunicationProvider interface {
	SendMessage(ctx context.Context, channel, message string) error
	CreateChannel(ctx context.Context, name, purpose string) (Channel, error)
	GetRecentMessages(ctx context.Context, channel string, limit int) ([]Message, error)
}

// MLEngine is the ML capability contract: classify, diagnose, recommend,
// summarize. Implementations must degrade to a low-confidence default on
// response-parse failure rather than return an error.
type MLEngine interface {
	Classify(ctx context.Context, description string) (Classification, error)
	Diagnose(ctx context.Context, description string, findings []Finding) (DiagnosticResult, error)
	Recommend(ctx context.Context, description string, diagnosis DiagnosticResult, findings []Finding) (RecommendationSet, error)
	Summarize(ctx context.Context, incident Incident) (string, error)
}

// ValidMethods is the single source of truth for which method names a
// runbook step or direct Action may name per integration category. It
// mirrors the method sets dispatched by pkg/executor's invokeTicketing/
// invokeMonitoring/invokeAlerting/invokeCompute/invokeCommunication
// switches above, and pkg/runbook validates every parsed step's
// (integration, method) pair against it before pkg/executor ever runs —
// both packages consult this table so neither can drift from the other.
var ValidMethods = map[IntegrationCategory]map[string]bool{
	CatTicketing: {
		"get_incident":          true,
		"create_incident":       true,
		"update_incident":       true,
		"get_recent_changes":    true,
		"add_work_note":         true,
		"search_knowledge_base": true,
	},
	CatMonitoring: {
		"get_current_alerts": true,
		"get_metrics":        true,
		"get_logs":           true,
		"get_host_info":      true,
		"get_top_processes":  true,
	},
	CatAlerting: {
		"get_active_incidents": true,
		"get_on_call":          true,
		"trigger_alert":        true,
		"acknowledge_alert":    true,
	},
	CatCompute: {
		"get_host_info":     true,
		"get_top_processes": true,
		"restart_service":   true,
	},
	CatCommunication: {
		"send_message":        true,
		"create_channel":      true,
		"get_recent_messages": true,
	},
}
