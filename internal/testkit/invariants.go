// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"shady/internal/ir"
	"shady/internal/irtext"
	"shady/internal/source"
)

// CheckSpanInvariants runs the span invariants of a parsed file:
// 1) every item span is non-empty, points at sf and lies within its content
// 2) items appear in source order without overlapping
// 3) every value span lies within the span of the value or item holding it
func CheckSpanInvariants(f *irtext.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev source.Span
	for i := range f.Items {
		it := &f.Items[i]
		sp := it.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("item %d: empty span %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("item %d: span file %d, want %d", i, sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("item %d: span %v ends beyond content (%d bytes)", i, sp, lenContent)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("item %d: span %v overlaps previous item %v", i, sp, prev)
		}
		if !within(it.NameSpan, sp) {
			return fmt.Errorf("item %d: name span %v outside item %v", i, it.NameSpan, sp)
		}
		if err := checkValue(it.Value, sp); err != nil {
			return fmt.Errorf("item %d (%%%s): %w", i, it.Name, err)
		}
		prev = sp
	}
	return nil
}

func checkValue(v *irtext.Value, parent source.Span) error {
	if v == nil {
		return nil
	}
	if !within(v.Span, parent) {
		return fmt.Errorf("%s span %v outside %v", v.Kind, v.Span, parent)
	}
	for _, item := range v.Items {
		if err := checkValue(item, v.Span); err != nil {
			return err
		}
	}
	for _, f := range v.Fields {
		if !within(f.NameSpan, v.Span) {
			return fmt.Errorf("field %s name span %v outside %v", f.Name, f.NameSpan, v.Span)
		}
		if err := checkValue(f.Value, v.Span); err != nil {
			return err
		}
	}
	return nil
}

func within(inner, outer source.Span) bool {
	return inner.File == outer.File && inner.Start >= outer.Start && inner.End <= outer.End
}

// CheckArena runs ir.Verify and folds its findings into one error.
func CheckArena(a *ir.Arena) error {
	errs := ir.Verify(a)
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return errors.Join(joined...)
}

// CheckNamesResolve confirms every bound name of m refers to a live node of
// its arena.
func CheckNamesResolve(m *irtext.Module) error {
	for name, id := range m.Names {
		if !m.Arena.Owns(id) {
			return fmt.Errorf("%%%s: %s is not owned by the module arena", name, id)
		}
		if _, ok := m.Defs[name]; !ok {
			return fmt.Errorf("%%%s: no definition span", name)
		}
	}
	return nil
}
