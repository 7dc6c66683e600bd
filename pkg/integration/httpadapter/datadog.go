package httpadapter

import (
	"context"
	"fmt"

	"github.com/jordigilh/runbookengine/internal/config"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// Datadog implements types.MonitoringProvider against the real Datadog
// API.
type Datadog struct {
	c      *client
	appKey string
}

// NewDatadog builds a live Datadog adapter from configuration.
func NewDatadog(cfg config.DatadogConfig) *Datadog {
	return &Datadog{
		c:      newClient("https://api.datadoghq.com/api/v1", "DD-API-KEY", cfg.APIKey),
		appKey: cfg.AppKey,
	}
}

var _ types.MonitoringProvider = (*Datadog)(nil)

func (d *Datadog) GetCurrentAlerts(ctx context.Context, filters map[string]interface{}) ([]types.Alert, error) {
	var resp struct {
		Events []struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
			Host  string `json:"host"`
			Alert string `json:"alert_type"`
		} `json:"events"`
	}
	if err := d.c.do(ctx, "GET", "/events?tags=monitor", nil, &resp); err != nil {
		return nil, err
	}
	alerts := make([]types.Alert, 0, len(resp.Events))
	for _, e := range resp.Events {
		alerts = append(alerts, types.Alert{ID: fmt.Sprint(e.ID), Name: e.Title, Host: e.Host, Status: e.Alert})
	}
	return alerts, nil
}

func (d *Datadog) GetMetrics(ctx context.Context, query types.MetricQuery) (types.MetricTimeSeries, error) {
	var resp struct {
		Series []struct {
			Metric     string      `json:"metric"`
			Pointlist  [][]float64 `json:"pointlist"`
		} `json:"series"`
	}
	path := fmt.Sprintf("/query?query=%s", query.MetricName)
	if err := d.c.do(ctx, "GET", path, nil, &resp); err != nil {
		return types.MetricTimeSeries{}, err
	}
	ts := types.MetricTimeSeries{MetricName: query.MetricName, Host: query.Host}
	if len(resp.Series) > 0 {
		for _, p := range resp.Series[0].Pointlist {
			if len(p) != 2 {
				continue
			}
			ts.Points = append(ts.Points, types.MetricDataPoint{Value: p[1]})
		}
	}
	return ts, nil
}

func (d *Datadog) GetLogs(ctx context.Context, query types.LogQuery) ([]types.LogEntry, error) {
	body := map[string]interface{}{"query": query.Query, "limit": query.Limit}
	var resp struct {
		Data []struct {
			Attributes struct {
				Message string `json:"message"`
				Service string `json:"service"`
				Status  string `json:"status"`
				Host    string `json:"host"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := d.c.do(ctx, "POST", "/logs-queries/list", body, &resp); err != nil {
		return nil, err
	}
	entries := make([]types.LogEntry, 0, len(resp.Data))
	for _, r := range resp.Data {
		entries = append(entries, types.LogEntry{
			Level: r.Attributes.Status, Host: r.Attributes.Host, Service: r.Attributes.Service, Message: r.Attributes.Message,
		})
	}
	return entries, nil
}

func (d *Datadog) GetHostInfo(ctx context.Context, hostname string) (types.HostInfo, error) {
	var resp struct {
		HostList []struct {
			Name string `json:"name"`
			Up   bool   `json:"up"`
		} `json:"host_list"`
	}
	if err := d.c.do(ctx, "GET", "/hosts?filter="+hostname, nil, &resp); err != nil {
		return types.HostInfo{}, err
	}
	state := "unknown"
	if len(resp.HostList) > 0 {
		if resp.HostList[0].Up {
			state = "running"
		} else {
			state = "down"
		}
	}
	return types.HostInfo{Hostname: hostname, State: state}, nil
}

// GetTopProcesses returns no data: Datadog's core monitoring API
// doesn't expose live process listings outside of Live Processes,
// which requires a separate opt-in product.
func (d *Datadog) GetTopProcesses(ctx context.Context, hostname string, limit int) ([]types.ProcessInfo, error) {
	return nil, nil
}
