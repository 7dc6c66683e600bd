package orchestrator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/pkg/executor"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// confidence weights are fixed per source regardless of a finding's
// actual content, since the heuristic is "how much do we trust this
// source category", not a per-finding score.
const (
	confidenceAlert   = 0.9
	confidenceLogs    = 0.7
	confidenceChange  = 0.8
	confidenceCompute = 0.85
	confidencePager   = 0.9
)

// GatherContext queries every integration category concurrently and
// attaches whatever findings they produce to the incident (stage 2). A
// single source's failure is logged and skipped — gathering is
// best-effort evidence collection, never a hard dependency.
//
// Findings are fanned out over fixed result slots (one per source) so
// the final incident.Findings order is deterministic — alerts, logs,
// changes, compute, alerting — independent of which goroutine finishes
// first.
func (o *Orchestrator) GatherContext(ctx context.Context, incident *types.Incident) ([]types.Finding, error) {
	ctx, span := tracer.Start(ctx, "orchestrator.GatherContext")
	defer span.End()

	incident.Status = types.IncidentDiagnosing
	addTimeline(incident, "gathering", "Gathering context from integrations", "", nil)

	slots := make([][]types.Finding, 5)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { slots[0] = o.gatherAlerts(gctx); return nil })
	g.Go(func() error { slots[1] = o.gatherLogs(gctx); return nil })
	g.Go(func() error { slots[2] = o.gatherChanges(gctx); return nil })
	g.Go(func() error { slots[3] = o.gatherCompute(gctx); return nil })
	g.Go(func() error { slots[4] = o.gatherPagerIncidents(gctx); return nil })

	// Each gatherX swallows its own provider errors internally, so
	// g.Wait() itself never fails — it only waits for every goroutine
	// to finish.
	_ = g.Wait()

	var findings []types.Finding
	for _, slot := range slots {
		findings = append(findings, slot...)
	}

	incident.Findings = findings
	addTimeline(incident, "context_gathered", fmt.Sprintf("Gathered %d findings from integrations", len(findings)), "", nil)
	return findings, nil
}

func (o *Orchestrator) monitoringProvider(ctx context.Context) (types.MonitoringProvider, error) {
	p, err := o.registry.GetProvider(ctx, types.CatMonitoring)
	if err != nil {
		return nil, err
	}
	mp, ok := p.(types.MonitoringProvider)
	if !ok {
		return nil, fmt.Errorf("monitoring provider does not implement MonitoringProvider")
	}
	return mp, nil
}

func (o *Orchestrator) gatherAlerts(ctx context.Context) []types.Finding {
	monitoring, err := o.monitoringProvider(ctx)
	if err != nil {
		o.logger.Warn("failed to gather alerts", zap.Error(err))
		return nil
	}
	raw, err := o.registry.Call(types.CatMonitoring, func() (interface{}, error) {
		return monitoring.GetCurrentAlerts(ctx, map[string]interface{}{})
	})
	if err != nil {
		o.logger.Warn("failed to gather alerts", zap.Error(err))
		return nil
	}
	alerts, _ := raw.([]types.Alert)

	findings := make([]types.Finding, 0, len(alerts))
	for _, alert := range alerts {
		findings = append(findings, types.Finding{
			ID:         types.NewFindingID(),
			Type:       types.FindingAlert,
			Source:     "monitoring",
			Summary:    fmt.Sprintf("[%s] %s on %s (value: %v)", alert.Severity, alert.Name, hostOrUnknown(alert.Host), alert.Value),
			Details:    structToMapBestEffort(alert),
			Confidence: confidenceAlert,
		})
	}
	return findings
}

func (o *Orchestrator) gatherLogs(ctx context.Context) []types.Finding {
	monitoring, err := o.monitoringProvider(ctx)
	if err != nil {
		o.logger.Warn("failed to gather logs", zap.Error(err))
		return nil
	}
	raw, err := o.registry.Call(types.CatMonitoring, func() (interface{}, error) {
		return monitoring.GetLogs(ctx, types.LogQuery{Query: "*"})
	})
	if err != nil {
		o.logger.Warn("failed to gather logs", zap.Error(err))
		return nil
	}
	logs, _ := raw.([]types.LogEntry)
	if len(logs) == 0 {
		return nil
	}

	sample := logs
	if len(sample) > 10 {
		sample = sample[:10]
	}
	entries := make([]interface{}, len(sample))
	for i, l := range sample {
		entries[i] = structToMapBestEffort(l)
	}

	return []types.Finding{{
		ID:         types.NewFindingID(),
		Type:       types.FindingLogPattern,
		Source:     "monitoring",
		Summary:    fmt.Sprintf("%d log entries gathered", len(logs)),
		Details:    map[string]interface{}{"entries": entries},
		Confidence: confidenceLogs,
	}}
}

func (o *Orchestrator) gatherChanges(ctx context.Context) []types.Finding {
	p, err := o.registry.GetProvider(ctx, types.CatTicketing)
	if err != nil {
		o.logger.Warn("failed to gather changes", zap.Error(err))
		return nil
	}
	ticketing, ok := p.(types.TicketingProvider)
	if !ok {
		o.logger.Warn("failed to gather changes", zap.String("error", "ticketing provider does not implement TicketingProvider"))
		return nil
	}
	raw, err := o.registry.Call(types.CatTicketing, func() (interface{}, error) {
		return ticketing.GetRecentChanges(ctx, "4h")
	})
	if err != nil {
		o.logger.Warn("failed to gather changes", zap.Error(err))
		return nil
	}
	changes, _ := raw.([]types.ChangeRecord)

	findings := make([]types.Finding, 0, len(changes))
	for _, change := range changes {
		findings = append(findings, types.Finding{
			ID:         types.NewFindingID(),
			Type:       types.FindingRecentChange,
			Source:     "ticketing",
			Summary:    fmt.Sprintf("Change %s: %s", change.Number, change.Description),
			Details:    structToMapBestEffort(change),
			Confidence: confidenceChange,
		})
	}
	return findings
}

func (o *Orchestrator) gatherCompute(ctx context.Context) []types.Finding {
	p, err := o.registry.GetProvider(ctx, types.CatCompute)
	if err != nil {
		o.logger.Warn("failed to gather compute data", zap.Error(err))
		return nil
	}
	compute, ok := p.(types.ComputeProvider)
	if !ok {
		o.logger.Warn("failed to gather compute data", zap.String("error", "compute provider does not implement ComputeProvider"))
		return nil
	}

	hostInfoRaw, err := o.registry.Call(types.CatCompute, func() (interface{}, error) {
		return compute.GetHostInfo(ctx, "")
	})
	if err != nil {
		o.logger.Warn("failed to gather compute data", zap.Error(err))
		return nil
	}
	hostInfo, _ := hostInfoRaw.(types.HostInfo)

	processesRaw, err := o.registry.Call(types.CatCompute, func() (interface{}, error) {
		return compute.GetTopProcesses(ctx, hostInfo.Hostname, 5)
	})
	if err != nil {
		return nil
	}
	processes, _ := processesRaw.([]types.ProcessInfo)
	if len(processes) == 0 {
		return nil
	}

	procDetails := make([]interface{}, len(processes))
	for i, p := range processes {
		procDetails[i] = structToMapBestEffort(p)
	}

	return []types.Finding{{
		ID:     types.NewFindingID(),
		Type:   types.FindingMetricAnomaly,
		Source: "compute",
		Summary: fmt.Sprintf("Top process: %s at %.1f%% CPU on %s",
			processes[0].Name, processes[0].CPUPercent, hostInfo.Hostname),
		Details: map[string]interface{}{
			"host":      structToMapBestEffort(hostInfo),
			"processes": procDetails,
		},
		Confidence: confidenceCompute,
	}}
}

func (o *Orchestrator) gatherPagerIncidents(ctx context.Context) []types.Finding {
	p, err := o.registry.GetProvider(ctx, types.CatAlerting)
	if err != nil {
		o.logger.Warn("failed to gather alerting data", zap.Error(err))
		return nil
	}
	alerting, ok := p.(types.AlertingProvider)
	if !ok {
		o.logger.Warn("failed to gather alerting data", zap.String("error", "alerting provider does not implement AlertingProvider"))
		return nil
	}
	raw, err := o.registry.Call(types.CatAlerting, func() (interface{}, error) {
		return alerting.GetActiveIncidents(ctx)
	})
	if err != nil {
		o.logger.Warn("failed to gather alerting data", zap.Error(err))
		return nil
	}
	incidents, _ := raw.([]types.PagerIncident)

	findings := make([]types.Finding, 0, len(incidents))
	for _, pi := range incidents {
		findings = append(findings, types.Finding{
			ID:         types.NewFindingID(),
			Type:       types.FindingAlert,
			Source:     "alerting",
			Summary:    fmt.Sprintf("PagerDuty: %s (status: %s)", pi.Title, pi.Status),
			Details:    structToMapBestEffort(pi),
			Confidence: confidencePager,
		})
	}
	return findings
}

func hostOrUnknown(host string) string {
	if host == "" {
		return "unknown"
	}
	return host
}

// structToMapBestEffort reuses the executor's result-coercion logic so
// a Finding's Details field always carries a plain map regardless of
// what shape the provider returned.
func structToMapBestEffort(v interface{}) map[string]interface{} {
	return executor.CoerceToDict(v)
}
