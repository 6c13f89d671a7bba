// Package trace provides the tracing subsystem of the shady compiler.
//
// Tracing records driver phases, per-file pipeline passes and, at the most
// detailed level, individual IR node constructions. It is the project's
// structured log: every event carries a scope, a name, an optional detail and
// free-form key/value extras.
//
// # Usage
//
//	shadyc check --trace=- --trace-level=phase shader.shd
//
// # Architecture
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event to a file or stderr
//   - RingTracer: keeps the last N events for crash dumps
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver and ScopePass events, LevelDetail adds
// ScopeModule (one source file), LevelDebug adds ScopeNode (arena events).
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "verify", trace.CurrentSpan(ctx))
//	defer span.End("")
//	ctx = trace.WithSpanContext(ctx, span.Context())
//
// Spans begun under a context from SpanContext.InUnit carry the input file
// in Event.Unit, so events from files checked in parallel can be told apart.
package trace
