package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// SpanContext identifies the innermost open span and the input file it
// works on. Workers checking files in parallel interleave their events;
// Unit keeps each event attributable.
type SpanContext struct {
	SpanID uint64
	Unit   string
}

// InUnit returns sc attributed to the input file at path.
func (sc SpanContext) InUnit(path string) SpanContext {
	sc.Unit = path
	return sc
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// CurrentSpan returns the span context carried by ctx; the zero value
// means no span is open.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanKey{}).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanKey{}, sc)
}
