package trace

import "errors"

// MultiTracer hands every event to each of its tracers, which apply
// their own level filters.
type MultiTracer struct {
	leveled
	tracers []Tracer
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{leveled: leveled{level}, tracers: tracers}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		tr.Emit(ev)
	}
}

func (t *MultiTracer) Flush() error {
	return t.each(Tracer.Flush)
}

func (t *MultiTracer) Close() error {
	return t.each(Tracer.Close)
}

func (t *MultiTracer) each(fn func(Tracer) error) error {
	var errs []error
	for _, tr := range t.tracers {
		if err := fn(tr); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
