package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"shady/internal/ir"
	"shady/internal/trace"
)

// Config is the decoded shady.toml. Every field has a default, so a missing
// file or section is equivalent to an empty one.
type Config struct {
	Arena       ArenaConfig       `toml:"arena"`
	Driver      DriverConfig      `toml:"driver"`
	Trace       TraceConfig       `toml:"trace"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

type ArenaConfig struct {
	CheckTypes bool `toml:"check_types"`
	IntWidth   int  `toml:"int_width"`
	PtrWidth   int  `toml:"ptr_width"`
}

type DriverConfig struct {
	Jobs           int      `toml:"jobs"` // 0 = GOMAXPROCS
	Passes         []string `toml:"passes"`
	Cache          bool     `toml:"cache"`
	CacheDir       string   `toml:"cache_dir"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

type TraceConfig struct {
	Level    string `toml:"level"`
	Output   string `toml:"output"`
	Mode     string `toml:"mode"`
	RingSize int    `toml:"ring_size"`
}

type DiagnosticsConfig struct {
	Format   string `toml:"format"` // pretty|short|json|sarif
	PathMode string `toml:"path_mode"`
	Notes    bool   `toml:"notes"`
	Context  int    `toml:"context"`
}

// Default returns the configuration used when no shady.toml exists.
func Default() Config {
	return Config{
		Arena: ArenaConfig{CheckTypes: true, IntWidth: 32, PtrWidth: 64},
		Driver: DriverConfig{
			Passes:         []string{"verify"},
			Cache:          false,
			MaxDiagnostics: 100,
		},
		Trace:       TraceConfig{Level: "off", Mode: "ring", RingSize: 4096},
		Diagnostics: DiagnosticsConfig{Format: "pretty", PathMode: "auto", Notes: true},
	}
}

// Load reads path on top of the defaults. Unknown keys are an error so typos
// do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover finds shady.toml from startDir upwards and loads it, falling back
// to Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Root returns the directory holding the configuration file, or "".
func (c Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Validate checks values that would otherwise fail deep inside the driver.
func (c Config) Validate() error {
	if _, ok := ir.IntWidthFromBits(c.Arena.IntWidth); !ok {
		return fmt.Errorf("[arena].int_width: %d is not 8, 16, 32 or 64", c.Arena.IntWidth)
	}
	if _, ok := ir.IntWidthFromBits(c.Arena.PtrWidth); !ok {
		return fmt.Errorf("[arena].ptr_width: %d is not 8, 16, 32 or 64", c.Arena.PtrWidth)
	}
	if c.Driver.Jobs < 0 {
		return fmt.Errorf("[driver].jobs: must not be negative")
	}
	if c.Driver.MaxDiagnostics <= 0 {
		return fmt.Errorf("[driver].max_diagnostics: must be positive")
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	switch c.Diagnostics.Format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("[diagnostics].format: %q (expected pretty|short|json|sarif)", c.Diagnostics.Format)
	}
	switch c.Diagnostics.PathMode {
	case "auto", "absolute", "relative", "basename":
	default:
		return fmt.Errorf("[diagnostics].path_mode: %q (expected auto|absolute|relative|basename)", c.Diagnostics.PathMode)
	}
	return nil
}

// IRConfig converts the [arena] section. Call Validate first.
func (c Config) IRConfig() ir.Config {
	iw, _ := ir.IntWidthFromBits(c.Arena.IntWidth)
	pw, _ := ir.IntWidthFromBits(c.Arena.PtrWidth)
	return ir.Config{CheckTypes: c.Arena.CheckTypes, IntWidth: iw, PtrWidth: pw}
}
