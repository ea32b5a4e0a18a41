// Package telemetry defines the logging, metrics, and tracing contracts used
// throughout the resolution and evaluation engines. Implementations typically
// delegate to goa.design/clue, but the interfaces are intentionally small so
// tests can supply lightweight stubs.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Logger captures structured logging used throughout the engine.
type Logger interface {
	Debug(ctx context.Context, msg string, keyvals ...any)
	Info(ctx context.Context, msg string, keyvals ...any)
	Warn(ctx context.Context, msg string, keyvals ...any)
	Error(ctx context.Context, msg string, keyvals ...any)
}

// Metrics exposes counter, timer, and gauge helpers for engine instrumentation.
type Metrics interface {
	IncCounter(name string, value float64, tags ...string)
	RecordTimer(name string, duration time.Duration, tags ...string)
	RecordGauge(name string, value float64, tags ...string)
}

// Tracer abstracts span creation so engine code stays agnostic of the
// underlying OpenTelemetry provider.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
	Span(ctx context.Context) Span
}

// Span represents an in-flight tracing span.
type Span interface {
	End(opts ...trace.SpanEndOption)
	AddEvent(name string, attrs ...any)
	SetStatus(code codes.Code, description string)
	RecordError(err error, opts ...trace.EventOption)
}

// OracleCallTelemetry captures observability metadata collected during a
// single oracle (language-model) invocation.
type OracleCallTelemetry struct {
	// DurationMs is the wall-clock call time in milliseconds.
	DurationMs int64
	// TokensUsed tracks the total tokens consumed by the call, when reported.
	TokensUsed int
	// Model identifies which model served the call (e.g., "claude-3-opus").
	Model string
	// Phase identifies which of the six oracle phases issued the call
	// (query-fill, query-user, query-gather, intent-sequencer, slot-resolver,
	// error-resolver).
	Phase string
}
