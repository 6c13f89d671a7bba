package trace

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything. It is what FromContext returns when no tracer
// was attached.
var Nop Tracer = nopTracer{}

// leveled carries the level shared by the concrete tracers.
type leveled struct{ level Level }

func (l leveled) Level() Level  { return l.level }
func (l leveled) Enabled() bool { return l.level > LevelOff }

// keeps reports whether ev passes the level filter. Heartbeats always do.
func (l leveled) keeps(ev *Event) bool {
	return ev.Kind == KindHeartbeat || l.level.ShouldEmit(ev.Scope)
}
