package ecs

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// signozOTelExporter is a TraceExporter that emits a zero-duration OTLP span
// per UpdateReport through an OpenTelemetry tracer, since SigNoz ingests
// traces over OTLP rather than a bespoke wire format.
type signozOTelExporter struct {
	tracer trace.Tracer
}

// NewSigNozOTelExporter wraps tracer as a TraceExporter.
func NewSigNozOTelExporter(tracer trace.Tracer) TraceExporter {
	return signozOTelExporter{tracer: tracer}
}

func (e signozOTelExporter) ExportUpdate(report UpdateReport) {
	_, span := e.tracer.Start(context.Background(), fmt.Sprintf("update:%d", report.Tick))
	span.SetAttributes(
		attribute.Bool("async", report.Async),
		attribute.Int64("tick", int64(report.Tick)),
		attribute.Int64("duration_ms", report.Duration.Milliseconds()),
		attribute.Int("systems_total", report.SystemsTotal),
		attribute.Int("systems_executed", report.SystemsExecuted),
		attribute.Int("systems_skipped", report.SystemsSkipped),
	)
	if report.Err != nil {
		span.RecordError(report.Err)
	}
	span.End()
}

var _ TraceExporter = signozOTelExporter{}
