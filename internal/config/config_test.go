package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shady/internal/ir"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if got := cfg.IRConfig(); got != ir.DefaultConfig() {
		t.Fatalf("IRConfig() = %+v, want %+v", got, ir.DefaultConfig())
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
[arena]
check_types = false
int_width = 64

[driver]
passes = ["verify", "rewrite"]
jobs = 2
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Root() != root {
		t.Fatalf("Root() = %q, want %q", cfg.Root(), root)
	}
	if cfg.Arena.CheckTypes || cfg.Arena.IntWidth != 64 || cfg.Arena.PtrWidth != 64 {
		t.Fatalf("arena = %+v", cfg.Arena)
	}
	if strings.Join(cfg.Driver.Passes, ",") != "verify,rewrite" || cfg.Driver.Jobs != 2 {
		t.Fatalf("driver = %+v", cfg.Driver)
	}
	// untouched sections keep defaults
	if cfg.Driver.MaxDiagnostics != 100 || cfg.Diagnostics.Format != "pretty" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.IRConfig().IntWidth != ir.IntWidth64 {
		t.Fatal("IRConfig ignores int_width")
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.Root() != "" {
		t.Fatalf("unexpected path %q", cfg.Path)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "[arena]\nchek_types = true\n",
		"bad width":    "[arena]\nint_width = 12\n",
		"bad level":    "[trace]\nlevel = \"loud\"\n",
		"bad mode":     "[trace]\nmode = \"tape\"\n",
		"bad format":   "[diagnostics]\nformat = \"xml\"\n",
		"bad path":     "[diagnostics]\npath_mode = \"weird\"\n",
		"negative job": "[driver]\njobs = -1\n",
		"syntax":       "[arena\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, content)
			if _, err := Load(path); err == nil {
				t.Fatalf("Load accepted %q", content)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()
	b.Trace.Level = "debug"
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("trace settings changed the fingerprint")
	}
	b.Arena.CheckTypes = false
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("check_types did not change the fingerprint")
	}
	if Combine(a.Fingerprint()) == Combine(a.Fingerprint(), b.Fingerprint()) {
		t.Fatal("Combine ignores deps")
	}
}
