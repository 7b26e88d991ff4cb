// Package backendhealth provides a single implementation for prediction
// backend health checks.
package backendhealth

import (
	"context"
	"fmt"
	"time"
)

// Prober is the probe surface, satisfied by predictclient.Client.
type Prober interface {
	Health(ctx context.Context) (reachable bool, latencyMs int64, modelVersion string, err error)
}

// Status is the snapshot reported by a single probe.
type Status struct {
	Reachable    bool   `json:"reachable"`
	LatencyMs    int64  `json:"latency_ms"`
	ModelVersion string `json:"model_version,omitempty"`
	LastChecked  string `json:"last_checked"`
	Error        string `json:"error,omitempty"`
}

// Check probes the backend once and returns the resulting snapshot. A failed
// probe is not an error to the caller; it is a Status with Reachable=false
// and the probe error recorded.
func Check(ctx context.Context, prober Prober) Status {
	reachable, latencyMs, modelVersion, err := prober.Health(ctx)
	status := Status{
		Reachable:    reachable,
		LatencyMs:    latencyMs,
		ModelVersion: modelVersion,
		LastChecked:  time.Now().UTC().Format(time.RFC3339),
	}
	if err != nil {
		status.Error = fmt.Errorf("backend health check: %w", err).Error()
	}
	return status
}
