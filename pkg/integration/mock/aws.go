package mock

import (
	"context"
	"fmt"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// AWS implements types.ComputeProvider against a canned scenario.
type AWS struct {
	base
}

// NewAWS builds a scenario-backed compute provider.
func NewAWS(scenarioName string, delayEnabled bool) *AWS {
	return &AWS{base: newBase("aws", scenarioName, delayEnabled)}
}

var _ types.ComputeProvider = (*AWS)(nil)

func (a *AWS) GetHostInfo(ctx context.Context, hostname string) (types.HostInfo, error) {
	if err := a.simulateDelay(ctx); err != nil {
		return types.HostInfo{}, err
	}
	h := a.data.hostInfo
	return types.HostInfo{
		Hostname:     hostname,
		InstanceID:   h.instanceID,
		InstanceType: h.instanceType,
		State:        h.state,
		IPAddress:    h.ipAddress,
		Region:       h.region,
	}, nil
}

func (a *AWS) GetTopProcesses(ctx context.Context, hostname string, limit int) ([]types.ProcessInfo, error) {
	if err := a.simulateDelay(ctx); err != nil {
		return nil, err
	}
	procs := make([]types.ProcessInfo, 0, len(a.data.processes))
	for i, p := range a.data.processes {
		if limit > 0 && i >= limit {
			break
		}
		procs = append(procs, types.ProcessInfo{
			PID:           p.pid,
			Name:          p.name,
			CPUPercent:    p.cpuPercent,
			MemoryPercent: p.memoryPercent,
			User:          p.user,
			Command:       p.command,
		})
	}
	return procs, nil
}

func (a *AWS) RestartService(ctx context.Context, hostname, service string, params map[string]interface{}) (map[string]interface{}, error) {
	if err := a.simulateDelay(ctx); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"hostname": hostname,
		"service":  service,
		"status":   "restarted",
		"detail":   fmt.Sprintf("service %q on %q restarted via SSM document", service, hostname),
	}, nil
}
