// Package observability provides OpenTelemetry-backed instrumentation for
// gridrange trees: a [lazygrid.Recorder] implementation built on OTel
// metric instruments, and a Prometheus scrape handler to expose them.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/gridrange/pkg/alg/lazygrid"
)

const (
	metricOpsTotal       = "gridrange.ops.total"
	metricOpDuration     = "gridrange.op.duration"
	metricPushesTotal    = "gridrange.pushes.total"
	metricPushedChildren = "gridrange.pushed.children.total"

	attrOp     = "op"
	attrStatus = "status"
)

// durationBucketBoundaries covers 100ns to 100ms. Tree operations are
// in-memory and complete in microseconds even on large grids; the upper
// buckets only fill when a caller runs under heavy contention or swap.
var durationBucketBoundaries = []float64{
	1e-7, 5e-7, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2, 1e-1,
}

// TreeMetrics records tree operation telemetry on OTel instruments. It
// implements [lazygrid.Recorder]; attach it with lazygrid.WithRecorder.
type TreeMetrics struct {
	opsTotal       metric.Int64Counter
	opDuration     metric.Float64Histogram
	pushesTotal    metric.Int64Counter
	pushedChildren metric.Int64Counter
}

var _ lazygrid.Recorder = (*TreeMetrics)(nil)

// NewTreeMetrics creates the tree instruments from the given meter.
func NewTreeMetrics(mt metric.Meter) (*TreeMetrics, error) {
	opsTotal, err := mt.Int64Counter(metricOpsTotal,
		metric.WithDescription("Total number of tree operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOpsTotal, err)
	}

	opDuration, err := mt.Float64Histogram(metricOpDuration,
		metric.WithDescription("Tree operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOpDuration, err)
	}

	pushesTotal, err := mt.Int64Counter(metricPushesTotal,
		metric.WithDescription("Total number of lazy pushes materialized during descent"),
		metric.WithUnit("{push}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPushesTotal, err)
	}

	pushedChildren, err := mt.Int64Counter(metricPushedChildren,
		metric.WithDescription("Total number of child nodes receiving a pushed operation"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPushedChildren, err)
	}

	return &TreeMetrics{
		opsTotal:       opsTotal,
		opDuration:     opDuration,
		pushesTotal:    pushesTotal,
		pushedChildren: pushedChildren,
	}, nil
}

// RecordOp records a completed public operation with its label and status.
func (tm *TreeMetrics) RecordOp(op, status string, elapsed time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	tm.opsTotal.Add(ctx, 1, attrs)
	tm.opDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordPush records one materializing push and the number of children
// the pending operation was distributed to.
func (tm *TreeMetrics) RecordPush(children int) {
	ctx := context.Background()

	tm.pushesTotal.Add(ctx, 1)
	tm.pushedChildren.Add(ctx, int64(children))
}
