package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	if r := tm.Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Fatalf("empty report = %+v", r)
	}
	a := tm.Begin("parse")
	time.Sleep(time.Millisecond)
	tm.End(a, "3 nodes")
	b := tm.Begin("verify")
	tm.End(b, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[0].Note != "3 nodes" {
		t.Fatalf("report = %+v", r)
	}
	if r.Phases[0].DurationMS <= 0 || r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("durations = %+v", r)
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "parse") || !strings.Contains(sum, "// 3 nodes") || !strings.Contains(sum, "total") {
		t.Fatalf("summary = %q", sum)
	}
	if len(tm.Phases()) != 2 {
		t.Fatal("Phases")
	}
}
