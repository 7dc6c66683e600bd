package mock

import (
	"context"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// Datadog implements types.MonitoringProvider against a canned scenario.
type Datadog struct {
	base
}

// NewDatadog builds a scenario-backed monitoring provider.
func NewDatadog(scenarioName string, delayEnabled bool) *Datadog {
	return &Datadog{base: newBase("datadog", scenarioName, delayEnabled)}
}

var _ types.MonitoringProvider = (*Datadog)(nil)

func (d *Datadog) GetCurrentAlerts(ctx context.Context, filters map[string]interface{}) ([]types.Alert, error) {
	if err := d.simulateDelay(ctx); err != nil {
		return nil, err
	}
	alerts := make([]types.Alert, 0, len(d.data.alerts))
	for _, a := range d.data.alerts {
		alerts = append(alerts, types.Alert{
			ID:        a.id,
			Name:      a.name,
			Host:      a.host,
			Value:     a.value,
			Threshold: a.threshold,
			Status:    a.status,
			Severity:  types.Severity(a.severity),
		})
	}
	return alerts, nil
}

func (d *Datadog) GetMetrics(ctx context.Context, query types.MetricQuery) (types.MetricTimeSeries, error) {
	if err := d.simulateDelay(ctx); err != nil {
		return types.MetricTimeSeries{}, err
	}
	series, ok := d.data.metrics[query.MetricName]
	if !ok {
		// Fall back to the first available series: any signal is
		// better than none for a scenario-driven mock.
		for _, s := range d.data.metrics {
			series = s
			break
		}
	}
	points := make([]types.MetricDataPoint, 0, len(series))
	for _, p := range series {
		points = append(points, types.MetricDataPoint{Timestamp: relativeTime(p.offsetMinutes), Value: p.value})
	}
	return types.MetricTimeSeries{MetricName: query.MetricName, Host: query.Host, Points: points}, nil
}

func (d *Datadog) GetLogs(ctx context.Context, query types.LogQuery) ([]types.LogEntry, error) {
	if err := d.simulateDelay(ctx); err != nil {
		return nil, err
	}
	entries := make([]types.LogEntry, 0, len(d.data.logs))
	for _, l := range d.data.logs {
		entries = append(entries, types.LogEntry{
			Timestamp: relativeTime(l.offsetMinutes),
			Level:     l.level,
			Host:      l.host,
			Service:   l.service,
			Message:   l.message,
		})
	}
	return entries, nil
}

func (d *Datadog) GetHostInfo(ctx context.Context, hostname string) (types.HostInfo, error) {
	if err := d.simulateDelay(ctx); err != nil {
		return types.HostInfo{}, err
	}
	h := d.data.hostInfo
	return types.HostInfo{
		Hostname:     hostname,
		InstanceID:   h.instanceID,
		InstanceType: h.instanceType,
		State:        h.state,
		IPAddress:    h.ipAddress,
		Region:       h.region,
	}, nil
}

// GetTopProcesses returns no data: Datadog's monitoring surface doesn't
// expose process-level detail, only the compute provider does.
func (d *Datadog) GetTopProcesses(ctx context.Context, hostname string, limit int) ([]types.ProcessInfo, error) {
	if err := d.simulateDelay(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}
