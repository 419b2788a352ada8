package connector

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/Konsultn-Engineering/pgconnect/connector"

	outcomeSuccessValue = "success"
)

// Metrics provides instrumentation for connections and statements. A nil
// *Metrics records nothing.
type Metrics struct {
	meter             metric.Meter
	connectsTotal     metric.Int64Counter
	statementsTotal   metric.Int64Counter
	rowsTotal         metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

// NewMetrics initializes connector metrics using the provided meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		return nil, nil
	}
	m := &Metrics{meter: meter}
	if err := m.initCounters(); err != nil {
		return nil, err
	}
	if err := m.initHistograms(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initCounters() error {
	counterDefs := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&m.connectsTotal, "pgconnect_connects_total", "Session establishment attempts by outcome"},
		{&m.statementsTotal, "pgconnect_statements_total", "Statements run by operation and outcome"},
		{&m.rowsTotal, "pgconnect_rows_total", "Rows materialized into row sets"},
	}
	for _, def := range counterDefs {
		counter, err := m.meter.Int64Counter(def.name,
			metric.WithDescription(def.description),
			metric.WithUnit("1"),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", def.name, err)
		}
		*def.target = counter
	}
	return nil
}

func (m *Metrics) initHistograms() error {
	var err error
	m.durationHistogram, err = m.meter.Float64Histogram("pgconnect_statement_duration_seconds",
		metric.WithDescription("Statement round trip duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create statement duration histogram: %w", err)
	}
	return nil
}

func outcome(err error) string {
	if err == nil {
		return outcomeSuccessValue
	}
	return KindOf(err).String()
}

// RecordConnect counts one Open attempt.
func (m *Metrics) RecordConnect(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.connectsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

// RecordStatement counts one Execute or Query call.
func (m *Metrics) RecordStatement(ctx context.Context, operation string, elapsed time.Duration, rows int, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome(err)),
	)
	m.statementsTotal.Add(ctx, 1, attrs)
	m.durationHistogram.Record(ctx, elapsed.Seconds(), attrs)
	if rows > 0 {
		m.rowsTotal.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("operation", operation)))
	}
}
