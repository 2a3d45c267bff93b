package entitystore

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Status is a point in time overview of a running store.
type Status struct {
	Time            time.Time   `json:"time"`
	Uptime          string      `json:"uptime"`
	ApplicationName string      `json:"applicationName"`
	Environment     Environment `json:"environment"`

	// Entities is the number of stored entities per kind.
	Entities map[string]int `json:"entities"`
	// Operations is the number of store operations, keyed by "operation/kind".
	Operations map[string]int64 `json:"operations"`
}

func GetStatus(ctx context.Context, di *Container, startedAt time.Time) (Status, error) {
	if err := di.EnsureAllDependenciesPresent(); err != nil {
		return Status{}, err
	}

	status := Status{
		Time:            time.Now(),
		Uptime:          time.Since(startedAt).Round(time.Second).String(),
		ApplicationName: di.Config.ApplicationName,
		Environment:     di.Config.Environment,
		Entities:        map[string]int{},
		Operations:      map[string]int64{},
	}

	for _, kind := range di.Store.Kinds() {
		n, err := di.Store.Count(ctx, kind)
		if err != nil {
			return Status{}, fmt.Errorf("could not count %s: %w", kind, err)
		}

		status.Entities[kind.String()] = n
	}

	if di.MetricReader == nil {
		return status, nil
	}

	rm := metricdata.ResourceMetrics{}
	if err := di.MetricReader.Collect(ctx, &rm); err != nil {
		return Status{}, fmt.Errorf("could not collect metrics: %w", err)
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "entitystore.operations" {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value("operation")
				kind, _ := dp.Attributes.Value("kind")
				status.Operations[op.AsString()+"/"+kind.AsString()] += dp.Value
			}
		}
	}

	return status, nil
}
