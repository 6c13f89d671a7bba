package trace

import "time"

// Point emits an instant event when the tracer accepts scope.
func Point(t Tracer, scope Scope, name, detail string, extra map[string]string) {
	if !Wants(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:   time.Now(),
		Seq:    nextSeq(),
		Kind:   KindPoint,
		Scope:  scope,
		Name:   name,
		Detail: detail,
		Extra:  extra,
	})
}

// Wants reports whether t would emit events of scope. Callers use it to
// avoid building event details nobody reads.
func Wants(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}
