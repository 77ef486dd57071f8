// Package ecs provides the entity identity allocator and the observability
// contracts the archetype package's Admin reports simulation ticks through.
package ecs

import (
	"context"
	"time"
)

// Logger is the structured logging sink Admin writes simulation events to.
type Logger interface {
	With(key string, value any) Logger
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Tracer starts tracing spans around a simulation tick.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, TraceSpan)
}

// TraceSpan represents an active tracing region.
type TraceSpan interface {
	End()
}

// UpdateReport summarizes one Admin.UpdateSimulation tick: how many systems
// ran, how long it took, and whether it went through the synchronous or
// pool-backed asynchronous path. MetricsCollector and TraceExporter
// implementations consume these to feed a real observability backend.
type UpdateReport struct {
	Tick            uint64
	Async           bool
	Duration        time.Duration
	SystemsTotal    int
	SystemsExecuted int
	SystemsSkipped  int
	Err             error
}

// MetricsCollector records UpdateReports against a metrics backend.
type MetricsCollector interface {
	ObserveUpdate(report UpdateReport)
}

// TraceExporter exports UpdateReports to a distributed tracing backend.
type TraceExporter interface {
	ExportUpdate(report UpdateReport)
}
