package testkit

import (
	"strings"
	"testing"

	"shady/internal/diag"
	"shady/internal/ir"
	"shady/internal/irtext"
	"shady/internal/source"
)

const sample = `%i32 = int(width: 32, signed: true)
%c = int_literal(width: 32, signed: true, value: 7)
%f = function(name: "f", params: [], return_types: [%i32])
%ret = return(fn: %f, values: [%c])
body %f = %ret
`

func TestInvariantsHoldForSample(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("sample.shd", []byte(sample)))
	bag := diag.NewBag(16)
	opts := irtext.Options{Reporter: diag.BagReporter{Bag: bag}}

	file := irtext.ParseFile(sf, opts)
	if err := CheckSpanInvariants(file, sf); err != nil {
		t.Fatal(err)
	}
	a := ir.NewArena(ir.DefaultConfig())
	mod := irtext.Build(a, file, opts)
	if bag.Len() != 0 {
		t.Fatal(diag.FormatShort(bag.Items(), fs, true))
	}
	if err := CheckArena(a); err != nil {
		t.Fatal(err)
	}
	if err := CheckNamesResolve(mod); err != nil {
		t.Fatal(err)
	}
}

func TestSpanInvariantViolations(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("x.shd", []byte("%a = unit()\n%b = unit()\n")))
	file := irtext.ParseFile(sf, irtext.Options{})
	if len(file.Items) != 2 {
		t.Fatalf("parsed %d items", len(file.Items))
	}

	file.Items[1].Span.Start = file.Items[0].Span.Start
	if err := CheckSpanInvariants(file, sf); err == nil || !strings.Contains(err.Error(), "overlaps") {
		t.Fatalf("err = %v, want overlap", err)
	}

	file = irtext.ParseFile(sf, irtext.Options{})
	file.Items[0].Value.Span.End = 1000
	if err := CheckSpanInvariants(file, sf); err == nil || !strings.Contains(err.Error(), "outside") {
		t.Fatalf("err = %v, want containment failure", err)
	}
}
