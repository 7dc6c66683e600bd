// Package mock implements the five provider capability interfaces
// against in-memory scenario fixtures, standing in for live SaaS
// integrations during development and in the default "mock" runbook
// mode.
package mock

import "time"

// scenario is one provider's slice of a named incident scenario. Each
// field mirrors the shape a live provider would return, pre-baked so a
// runbook can be exercised end to end with no network access.
type scenario struct {
	alerts      []alertFixture
	metrics     map[string][]pointFixture
	logs        []logFixture
	hostInfo    hostFixture
	processes   []processFixture
	changes     []changeFixture
	kb          []kbFixture
	pagerIncidents []pagerFixture
	onCall      onCallFixture
}

type alertFixture struct {
	id, name, host, status string
	value, threshold       float64
	severity               string
}

type pointFixture struct {
	offsetMinutes int
	value         float64
}

type logFixture struct {
	offsetMinutes       int
	level, host, service string
	message             string
}

type hostFixture struct {
	instanceID, instanceType, state, ipAddress, region string
}

type processFixture struct {
	pid                        int
	name, user, command        string
	cpuPercent, memoryPercent  float64
}

type changeFixture struct {
	id, number, description, status, requestedBy string
}

type kbFixture struct {
	id, title, content string
	relevance          float64
}

type pagerFixture struct {
	id, title, status, urgency, service string
}

type onCallFixture struct {
	user     string
	schedule string
	level    int
}

// scenarios holds the engine's built-in canned incidents, one per name
// in config.AvailableScenarios.
var scenarios = map[string]scenario{
	"high_cpu": {
		alerts: []alertFixture{
			{id: "alert-1001", name: "High CPU utilization", host: "web-prod-03", status: "triggered", value: 94.2, threshold: 85.0, severity: "high"},
		},
		metrics: map[string][]pointFixture{
			"system.cpu.user": {{0, 40.1}, {5, 62.7}, {10, 81.5}, {15, 94.2}},
		},
		logs: []logFixture{
			{offsetMinutes: 12, level: "warn", host: "web-prod-03", service: "api", message: "request queue depth exceeding soft limit"},
			{offsetMinutes: 8, level: "error", host: "web-prod-03", service: "api", message: "worker pool saturated, rejecting new connections"},
		},
		hostInfo: hostFixture{instanceID: "i-0a1b2c3d4e5f", instanceType: "m5.xlarge", state: "running", ipAddress: "10.0.4.17", region: "us-east-1"},
		processes: []processFixture{
			{pid: 4821, name: "java", user: "app", command: "api-server", cpuPercent: 78.3, memoryPercent: 41.2},
			{pid: 4822, name: "java", user: "app", command: "worker", cpuPercent: 12.1, memoryPercent: 9.8},
		},
		changes: []changeFixture{
			{id: "chg-5501", number: "CHG0005501", description: "deployed api-server v2.14.0", status: "closed", requestedBy: "deploy-bot"},
		},
		kb: []kbFixture{
			{id: "kb-001", title: "Runaway worker pool saturation", content: "Scale out web tier or restart the api-server service.", relevance: 0.91},
		},
		pagerIncidents: []pagerFixture{
			{id: "pd-9001", title: "High CPU utilization on web-prod-03", status: "triggered", urgency: "high", service: "web-tier"},
		},
		onCall: onCallFixture{user: "jordan.chen", schedule: "web-tier-primary", level: 1},
	},
	"database_connection": {
		alerts: []alertFixture{
			{id: "alert-2001", name: "Database connection pool exhausted", host: "db-prod-01", status: "triggered", value: 100.0, threshold: 90.0, severity: "critical"},
		},
		metrics: map[string][]pointFixture{
			"db.connections.active": {{0, 60}, {5, 85}, {10, 98}, {15, 100}},
		},
		logs: []logFixture{
			{offsetMinutes: 6, level: "error", host: "db-prod-01", service: "postgres", message: "FATAL: sorry, too many clients already"},
		},
		hostInfo: hostFixture{instanceID: "i-0f1e2d3c4b5a", instanceType: "r5.2xlarge", state: "running", ipAddress: "10.0.2.9", region: "us-east-1"},
		changes: []changeFixture{
			{id: "chg-5490", number: "CHG0005490", description: "increased max_connections from 100 to 120", status: "closed", requestedBy: "dba-team"},
		},
		kb: []kbFixture{
			{id: "kb-014", title: "Connection pool exhaustion playbook", content: "Check for leaked connections and long-running transactions before increasing max_connections.", relevance: 0.88},
		},
		pagerIncidents: []pagerFixture{
			{id: "pd-9002", title: "Database connection pool exhausted", status: "triggered", urgency: "high", service: "data-tier"},
		},
		onCall: onCallFixture{user: "priya.nair", schedule: "data-tier-primary", level: 1},
	},
	"deployment_failure": {
		alerts: []alertFixture{
			{id: "alert-3001", name: "Deployment health check failing", host: "web-prod-07", status: "triggered", value: 0, threshold: 1, severity: "high"},
		},
		logs: []logFixture{
			{offsetMinutes: 3, level: "error", host: "web-prod-07", service: "api", message: "panic: nil pointer dereference in handler.ServeHTTP"},
		},
		hostInfo: hostFixture{instanceID: "i-0011223344aa", instanceType: "m5.large", state: "running", ipAddress: "10.0.4.22", region: "us-east-1"},
		changes: []changeFixture{
			{id: "chg-5512", number: "CHG0005512", description: "deployed api-server v2.15.0", status: "in_progress", requestedBy: "deploy-bot"},
		},
		kb: []kbFixture{
			{id: "kb-022", title: "Bad deploy rollback procedure", content: "Roll back to the previous known-good release and reopen the change.", relevance: 0.94},
		},
		pagerIncidents: []pagerFixture{
			{id: "pd-9003", title: "Deployment health check failing", status: "triggered", urgency: "high", service: "web-tier"},
		},
		onCall: onCallFixture{user: "sam.okafor", schedule: "web-tier-primary", level: 1},
	},
	"network_latency": {
		alerts: []alertFixture{
			{id: "alert-4001", name: "Elevated p99 latency", host: "lb-prod-01", status: "triggered", value: 1850, threshold: 500, severity: "medium"},
		},
		metrics: map[string][]pointFixture{
			"network.latency.p99": {{0, 320}, {5, 610}, {10, 1200}, {15, 1850}},
		},
		logs: []logFixture{
			{offsetMinutes: 10, level: "warn", host: "lb-prod-01", service: "envoy", message: "upstream connect timeout to backend cluster"},
		},
		hostInfo: hostFixture{instanceID: "i-00aabbccdd11", instanceType: "c5.xlarge", state: "running", ipAddress: "10.0.1.5", region: "us-east-1"},
		kb: []kbFixture{
			{id: "kb-031", title: "Backend cluster connectivity checklist", content: "Check security group rules and backend target health before escalating.", relevance: 0.76},
		},
		pagerIncidents: []pagerFixture{
			{id: "pd-9004", title: "Elevated p99 latency", status: "triggered", urgency: "low", service: "edge"},
		},
		onCall: onCallFixture{user: "morgan.lee", schedule: "edge-primary", level: 2},
	},
}

func lookupScenario(name string) scenario {
	return scenarios[name]
}

func relativeTime(offsetMinutes int) time.Time {
	return time.Now().Add(-time.Duration(offsetMinutes) * time.Minute)
}
