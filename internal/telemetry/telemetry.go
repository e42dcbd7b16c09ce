// Package telemetry records scan counters and durations through OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope used for every instrument.
const MeterName = "github.com/phobologic/cxscan"

// Instruments groups the scan instruments. A nil *Instruments records nothing.
type Instruments struct {
	filesScanned metric.Int64Counter
	filesFailed  metric.Int64Counter
	units        metric.Int64Counter
	scanDuration metric.Float64Histogram
}

// New creates the instruments on mp, or on the global provider when mp is nil.
func New(mp metric.MeterProvider) (*Instruments, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(MeterName)

	filesScanned, err := meter.Int64Counter(
		"cxscan_files_scanned_total",
		metric.WithDescription("Total number of source files analyzed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating files scanned counter: %w", err)
	}

	filesFailed, err := meter.Int64Counter(
		"cxscan_files_failed_total",
		metric.WithDescription("Total number of source files skipped after an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating files failed counter: %w", err)
	}

	units, err := meter.Int64Counter(
		"cxscan_units_total",
		metric.WithDescription("Total number of function units extracted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating units counter: %w", err)
	}

	scanDuration, err := meter.Float64Histogram(
		"cxscan_scan_duration_seconds",
		metric.WithDescription("Whole scan duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating scan duration histogram: %w", err)
	}

	return &Instruments{
		filesScanned: filesScanned,
		filesFailed:  filesFailed,
		units:        units,
		scanDuration: scanDuration,
	}, nil
}

// FileScanned counts one analyzed file and the units it produced.
func (i *Instruments) FileScanned(ctx context.Context, language string, units int) {
	if i == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("language", language))
	i.filesScanned.Add(ctx, 1, attrs)
	if units > 0 {
		i.units.Add(ctx, int64(units), attrs)
	}
}

// FileFailed counts one file that was skipped.
func (i *Instruments) FileFailed(ctx context.Context, language, reason string) {
	if i == nil {
		return
	}
	i.filesFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("language", language),
		attribute.String("reason", reason),
	))
}

// ScanFinished records the duration of a complete scan.
func (i *Instruments) ScanFinished(ctx context.Context, d time.Duration) {
	if i == nil {
		return
	}
	i.scanDuration.Record(ctx, d.Seconds())
}
