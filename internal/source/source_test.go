package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	if id := in.Intern(""); id != NoStringID {
		t.Fatalf("empty string id = %d, want %d", id, NoStringID)
	}
	a := in.Intern("alpha")
	b := in.InternBytes([]byte("alpha"))
	if a != b {
		t.Fatalf("same string interned twice: %d != %d", a, b)
	}
	if c := in.Intern("beta"); c == a {
		t.Fatalf("distinct strings share id %d", c)
	}
	if s, ok := in.Lookup(a); !ok || s != "alpha" {
		t.Fatalf("Lookup(%d) = %q, %v", a, s, ok)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatal("Lookup of unknown id succeeded")
	}
	if in.Len() != 3 {
		t.Fatalf("Len = %d, want 3", in.Len())
	}
	snap := in.Snapshot()
	snap[1] = "mutated"
	if in.MustLookup(a) != "alpha" {
		t.Fatal("Snapshot aliases interner storage")
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewInterner().MustLookup(7)
}

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nx")
	idx := buildLineIndex(content)
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // the newline ending line 1
		{3, LineCol{2, 1}},
		{5, LineCol{2, 3}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tc := range cases {
		if got := toLineCol(idx, tc.off); got != tc.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestFileSetAddAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.shd", []byte("a = int(width: w32)\r\nb = bool_type\r\n"))
	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Fatal("virtual flag missing")
	}
	if got := f.GetLine(2); got != "b = bool_type" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Fatalf("GetLine(3) = %q, want empty", got)
	}
	if got := f.GetLine(0); got != "" {
		t.Fatalf("GetLine(0) = %q, want empty", got)
	}
	start, end := fs.Resolve(Span{File: id, Start: 20, End: 21})
	if start != (LineCol{2, 1}) || end != (LineCol{2, 2}) {
		t.Fatalf("Resolve = %+v %+v", start, end)
	}

	again := fs.AddVirtual("mem.shd", []byte("x"))
	latest, ok := fs.GetLatest("mem.shd")
	if !ok || latest != again {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, again)
	}
	if fs.Len() != 2 {
		t.Fatalf("Len = %d, want 2", fs.Len())
	}
}

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.shd")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFone\r\ntwo"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if string(f.Content) != "one\ntwo" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if got := f.FormatPath("relative", fs.BaseDir()); got != "in.shd" {
		t.Fatalf("relative path = %q", got)
	}
	if got := f.FormatPath("basename", ""); got != "in.shd" {
		t.Fatalf("basename = %q", got)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.shd")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}

func TestRelativePathOutsideBase(t *testing.T) {
	base := t.TempDir()
	other := t.TempDir()
	p := filepath.Join(other, "f.shd")
	got, err := RelativePath(p, base)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := AbsolutePath(p)
	if got != want {
		t.Fatalf("RelativePath = %q, want %q", got, want)
	}
}

func TestSpanOps(t *testing.T) {
	s := Span{File: 1, Start: 4, End: 8}
	if s.ShiftLeft(5) != s {
		t.Fatal("underflowing shift should return the span unchanged")
	}
	if got := s.ShiftLeft(4); got.Start != 0 || got.End != 4 {
		t.Fatalf("ShiftLeft = %v", got)
	}
	if got := s.Cover(Span{File: 1, Start: 2, End: 5}); got.Start != 2 || got.End != 8 {
		t.Fatalf("Cover = %v", got)
	}
	if got := s.Cover(Span{File: 2, Start: 0, End: 20}); got != s {
		t.Fatalf("Cover across files = %v", got)
	}
	if s.Len() != 4 || s.Empty() {
		t.Fatal("Len/Empty")
	}
}
