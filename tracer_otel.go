package ecs

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// otelTracer adapts an OpenTelemetry trace.Tracer to this module's Tracer
// interface, letting Admin.UpdateSimulation's span-per-tick usage export to
// any OTLP-compatible backend (SigNoz included).
type otelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer wraps t as a Tracer.
func NewOTelTracer(t trace.Tracer) Tracer {
	return otelTracer{tracer: t}
}

func (o otelTracer) Start(ctx context.Context, name string) (context.Context, TraceSpan) {
	spanCtx, span := o.tracer.Start(ctx, name)
	return spanCtx, otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End() {
	s.span.End()
}

var _ Tracer = otelTracer{}
var _ TraceSpan = otelSpan{}
