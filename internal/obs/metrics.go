package obs

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterRecorder reports timings as OpenTelemetry instruments.
type MeterRecorder struct {
	buildDuration metric.Float64Histogram
	passDuration  metric.Float64Histogram
	opDuration    metric.Float64Histogram
	opFailures    metric.Int64Counter
	opsExecuted   metric.Int64Counter
}

// NewMeterRecorder creates instruments on meter. A nil meter uses the
// global meter provider.
func NewMeterRecorder(meter metric.Meter) (*MeterRecorder, error) {
	if meter == nil {
		meter = otel.Meter(TracerName)
	}
	var (
		r   MeterRecorder
		err error
	)
	if r.buildDuration, err = meter.Float64Histogram("depsgraph.build.duration",
		metric.WithUnit("s"), metric.WithDescription("Time spent building a graph")); err != nil {
		return nil, fmt.Errorf("create build histogram: %w", err)
	}
	if r.passDuration, err = meter.Float64Histogram("depsgraph.pass.duration",
		metric.WithUnit("s"), metric.WithDescription("Time spent in one evaluation pass")); err != nil {
		return nil, fmt.Errorf("create pass histogram: %w", err)
	}
	if r.opDuration, err = meter.Float64Histogram("depsgraph.operation.duration",
		metric.WithUnit("s"), metric.WithDescription("Callback run time per operation")); err != nil {
		return nil, fmt.Errorf("create operation histogram: %w", err)
	}
	if r.opFailures, err = meter.Int64Counter("depsgraph.operation.failures",
		metric.WithDescription("Operations whose callback failed")); err != nil {
		return nil, fmt.Errorf("create failure counter: %w", err)
	}
	if r.opsExecuted, err = meter.Int64Counter("depsgraph.operation.executed",
		metric.WithDescription("Operations run to completion")); err != nil {
		return nil, fmt.Errorf("create executed counter: %w", err)
	}
	return &r, nil
}

func (r *MeterRecorder) RecordBuild(d time.Duration, operations, relations int) {
	r.buildDuration.Record(context.Background(), d.Seconds(), metric.WithAttributes(
		attribute.Int("depsgraph.operations", operations),
		attribute.Int("depsgraph.relations", relations),
	))
}

func (r *MeterRecorder) RecordPass(d time.Duration, executed, failed, blocked int) {
	r.passDuration.Record(context.Background(), d.Seconds(), metric.WithAttributes(
		attribute.Int("depsgraph.executed", executed),
		attribute.Int("depsgraph.failed", failed),
		attribute.Int("depsgraph.blocked", blocked),
	))
}

func (r *MeterRecorder) RecordOperation(address string, d time.Duration, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("depsgraph.operation", address))
	r.opDuration.Record(ctx, d.Seconds(), attrs)
	if err != nil {
		r.opFailures.Add(ctx, 1, attrs)
		return
	}
	r.opsExecuted.Add(ctx, 1, attrs)
}
