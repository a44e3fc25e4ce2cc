package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "tmux-jump"

// Metrics holds the metric instruments for a jump. All counters are
// cumulative and the Record methods are safe on a nil receiver.
type Metrics struct {
	// PanesListed counts panes returned by the multiplexer listing.
	PanesListed metric.Int64Counter
	// Resolutions counts foreground lookups, partitioned by result
	// (resolved, unresolved).
	Resolutions metric.Int64Counter
	// Candidates records how many panes survived filtering per run.
	Candidates metric.Int64Histogram
	// Jumps counts runs, partitioned by outcome (jumped, no_match, error, ...).
	Jumps metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.PanesListed, err = meter.Int64Counter("panes.listed",
		metric.WithDescription("Panes returned by the multiplexer listing"),
		metric.WithUnit("{pane}"))
	if err != nil {
		return nil, err
	}

	m.Resolutions, err = meter.Int64Counter("foreground.resolutions",
		metric.WithDescription("Foreground process lookups partitioned by result"))
	if err != nil {
		return nil, err
	}

	m.Candidates, err = meter.Int64Histogram("candidates",
		metric.WithDescription("Panes remaining after process and directory filters"),
		metric.WithUnit("{pane}"))
	if err != nil {
		return nil, err
	}

	m.Jumps, err = meter.Int64Counter("jumps.total",
		metric.WithDescription("Runs partitioned by outcome"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordPanes records the size of a pane listing.
func (m *Metrics) RecordPanes(ctx context.Context, n int, locator string) {
	if m == nil {
		return
	}
	m.PanesListed.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("pane.locator", locator),
	))
}

// RecordResolution records one foreground lookup.
func (m *Metrics) RecordResolution(ctx context.Context, resolved bool) {
	if m == nil {
		return
	}
	result := "unresolved"
	if resolved {
		result = "resolved"
	}
	m.Resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("foreground.result", result),
	))
}

// RecordCandidates records the candidate count of one run.
func (m *Metrics) RecordCandidates(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.Candidates.Record(ctx, int64(n))
}

// RecordJump records the outcome of one run.
func (m *Metrics) RecordJump(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.Jumps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("jump.outcome", outcome),
	))
}
