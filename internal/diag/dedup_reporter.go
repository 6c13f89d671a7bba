package diag

import "shady/internal/source"

type seenKey struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter forwards each distinct (code, primary span, message) once.
// A unit reports through one of these so that passes repeating a finding,
// such as a second verify run, do not stack identical entries.
type DedupReporter struct {
	next       Reporter
	seen       map[seenKey]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[seenKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := seenKey{code: code, span: primary, msg: msg}
	if _, dup := r.seen[key]; dup {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed is the number of reports dropped as repeats.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
