package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRecordsTotal  = "pipemux.records.total"
	metricParseFailures = "pipemux.parse.failures.total"
	metricDecodedBytes  = "pipemux.decoded.bytes.total"
	metricPipelines     = "pipemux.pipelines.total"
	metricRunDuration   = "pipemux.run.duration.seconds"

	attrOutcome = "outcome"
	attrState   = "state"

	stateOpen   = "open"
	stateClosed = "closed"
)

// runDurationBoundaries covers microsecond-scale in-memory runs up to
// multi-second streams piped from slow producers.
var runDurationBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60}

// IngestMetrics holds the OTel instruments for one ingest run.
type IngestMetrics struct {
	recordsTotal  metric.Int64Counter
	parseFailures metric.Int64Counter
	decodedBytes  metric.Int64Counter
	pipelines     metric.Int64Counter
	runDuration   metric.Float64Histogram
}

// NewIngestMetrics creates ingest metric instruments from the given meter.
func NewIngestMetrics(mt metric.Meter) (*IngestMetrics, error) {
	b := newMetricBuilder(mt)

	im := &IngestMetrics{
		recordsTotal:  b.counter(metricRecordsTotal, "Total number of records by admission outcome", "{record}"),
		parseFailures: b.counter(metricParseFailures, "Total number of unparsable input lines", "{line}"),
		decodedBytes:  b.counter(metricDecodedBytes, "Total decoded payload bytes admitted", "By"),
		pipelines:     b.counter(metricPipelines, "Number of pipelines by final state", "{pipeline}"),
		runDuration:   b.histogram(metricRunDuration, "Ingest run duration in seconds", "s", runDurationBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return im, nil
}

// RecordAdmission counts one admitted or rejected record by outcome label.
func (im *IngestMetrics) RecordAdmission(ctx context.Context, outcome string, count int64) {
	im.recordsTotal.Add(ctx, count, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}

// RecordParseFailures counts input lines that never reached admission.
func (im *IngestMetrics) RecordParseFailures(ctx context.Context, count int64) {
	im.parseFailures.Add(ctx, count)
}

// AddDecodedBytes counts decoded payload bytes admitted into buffers.
func (im *IngestMetrics) AddDecodedBytes(ctx context.Context, n int64) {
	im.decodedBytes.Add(ctx, n)
}

// RecordPipelines counts pipelines by their state at end of run.
func (im *IngestMetrics) RecordPipelines(ctx context.Context, open, closed int64) {
	im.pipelines.Add(ctx, open, metric.WithAttributes(attribute.String(attrState, stateOpen)))
	im.pipelines.Add(ctx, closed, metric.WithAttributes(attribute.String(attrState, stateClosed)))
}

// RecordRun records the wall-clock duration of one complete ingest run.
func (im *IngestMetrics) RecordRun(ctx context.Context, duration time.Duration) {
	im.runDuration.Record(ctx, duration.Seconds())
}
