package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"shady/internal/config"
	"shady/internal/diag"
	"shady/internal/source"
)

func TestDiskCachePutGet(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := config.Digest{1, 2, 3}
	in := &DiskPayload{
		Path:  "a.shd",
		Nodes: 7,
		Diagnostics: []CachedDiagnostic{{
			Severity: uint8(diag.SevError),
			Code:     uint16(diag.BuildUndefinedName),
			Start:    4,
			End:      9,
			Message:  "%u8 is not bound",
			Notes:    []CachedNote{{Start: 0, End: 2, Msg: "here"}},
		}},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatal(err)
	}

	var out DiskPayload
	ok, err := cache.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("Get = %t, %v", ok, err)
	}
	if out.Nodes != 7 || out.Path != "a.shd" || len(out.Diagnostics) != 1 {
		t.Fatalf("payload mismatch: %+v", out)
	}
	if d := out.Diagnostics[0]; d.Message != "%u8 is not bound" || len(d.Notes) != 1 {
		t.Fatalf("diagnostic mismatch: %+v", d)
	}

	ok, err = cache.Get(config.Digest{9}, &out)
	if err != nil || ok {
		t.Fatalf("missing key: Get = %t, %v", ok, err)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := cache.Get(key, &out); ok {
		t.Fatal("entry survived DropAll")
	}
	if _, err := os.Stat(cache.Dir()); err != nil {
		t.Fatalf("cache dir missing after DropAll: %v", err)
	}
}

func TestDiskCacheNilIsDisabled(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(config.Digest{}, &DiskPayload{}); err != nil {
		t.Fatal(err)
	}
	if ok, err := cache.Get(config.Digest{}, &DiskPayload{}); ok || err != nil {
		t.Fatalf("Get = %t, %v", ok, err)
	}
}

func TestOpenDiskCacheUsesXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	cache, err := OpenDiskCache("shady")
	if err != nil {
		t.Fatal(err)
	}
	if cache.Dir() != filepath.Join(base, "shady") {
		t.Fatalf("dir = %s", cache.Dir())
	}
}

func TestCheckUsesCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.shd": undefinedName, "good.shd": addOne})
	paths := []string{filepath.Join(dir, "bad.shd"), filepath.Join(dir, "good.shd")}
	cache, err := OpenDiskCacheAt(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := testOptions()
	opts.Cache = cache

	first, err := Check(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Check(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	for i := range paths {
		a, b := first.Units[i], second.Units[i]
		if a.Cached || !b.Cached {
			t.Fatalf("%s: cached first=%t second=%t", a.Path, a.Cached, b.Cached)
		}
		if !slices.Equal(codeIDs(a.Bag), codeIDs(b.Bag)) {
			t.Fatalf("%s: %v vs %v", a.Path, codeIDs(a.Bag), codeIDs(b.Bag))
		}
		if a.Nodes != b.Nodes || a.Stats != b.Stats {
			t.Fatalf("%s: stats differ", a.Path)
		}
	}
	got := second.Units[0].Bag.Items()[0]
	want := first.Units[0].Bag.Items()[0]
	if got.Primary != want.Primary || got.Message != want.Message {
		t.Fatalf("restored %+v, want %+v", got, want)
	}
	start, _ := second.FileSet.Resolve(got.Primary)
	if start == (source.LineCol{}) {
		t.Fatal("restored span does not resolve")
	}

	// A different configuration misses.
	opts.Config.Arena.IntWidth = 64
	third, err := Check(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Units[0].Cached {
		t.Fatal("fingerprint change must invalidate the cache")
	}
}
