package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// Span is one open begin/end pair. Spans opened on a tracer that rejects
// their scope are inert: End and WithExtra do nothing, and Context hands
// the parent through so children stay attributed.
type Span struct {
	tracer  Tracer
	ctx     SpanContext
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

var inert = &Span{}

// Begin opens a span under parent. The span belongs to the same unit as
// its parent.
func Begin(t Tracer, scope Scope, name string, parent SpanContext) *Span {
	if !Wants(t, scope) {
		if parent == (SpanContext{}) {
			return inert
		}
		return &Span{ctx: parent}
	}
	s := &Span{
		tracer:  t,
		ctx:     SpanContext{SpanID: spanCounter.Add(1), Unit: parent.Unit},
		parent:  parent.SpanID,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Seq:      nextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.ctx.SpanID,
		ParentID: s.parent,
		Unit:     s.ctx.Unit,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.extra
	}
	return ev
}

// End closes the span and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	s.tracer.Emit(s.event(KindSpanEnd, now, detail))
	return now.Sub(s.started)
}

// WithExtra records key=value on the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID is 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil || s.tracer == nil {
		return 0
	}
	return s.ctx.SpanID
}

// Context is what children of s are begun under.
func (s *Span) Context() SpanContext {
	if s == nil {
		return SpanContext{}
	}
	return s.ctx
}
