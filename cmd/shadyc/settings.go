package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"shady/internal/config"
	"shady/internal/driver"
)

// loadConfig reads --config or discovers shady.toml from the working
// directory, then applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			cfg, err = config.Discover(wd)
		}
	}
	if err != nil {
		return config.Config{}, err
	}

	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs < 0 {
		return config.Config{}, fmt.Errorf("--jobs must not be negative")
	}
	if jobs > 0 {
		cfg.Driver.Jobs = jobs
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if maxDiagnostics > 0 {
		cfg.Driver.MaxDiagnostics = maxDiagnostics
	}
	return cfg, nil
}

// applyPasses overrides the pass list when the command's --passes flag was
// given.
func applyPasses(cmd *cobra.Command, cfg *config.Config) error {
	if !cmd.Flags().Changed("passes") {
		return nil
	}
	passes, err := cmd.Flags().GetStringSlice("passes")
	if err != nil {
		return fmt.Errorf("failed to get passes flag: %w", err)
	}
	cfg.Driver.Passes = passes
	if _, err := driver.ResolvePasses(passes); err != nil {
		return err
	}
	return nil
}

// openCache opens the result cache when the configuration enables it.
func openCache(cmd *cobra.Command, cfg config.Config) (*driver.DiskCache, error) {
	noCache, err := cmd.Root().PersistentFlags().GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if noCache || !cfg.Driver.Cache {
		return nil, nil
	}
	if dir := cfg.Driver.CacheDir; dir != "" {
		if !filepath.IsAbs(dir) && cfg.Root() != "" {
			dir = filepath.Join(cfg.Root(), dir)
		}
		return driver.OpenDiskCacheAt(dir)
	}
	return driver.OpenDiskCache("shady")
}

// useColor resolves --color against the terminal and NO_COLOR.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return os.Getenv("NO_COLOR") == "" && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// inputFiles expands directory arguments; with no arguments the directory
// holding the configuration (or the working directory) is used.
func inputFiles(cfg config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		root := cfg.Root()
		if root == "" {
			root = "."
		}
		args = []string{root}
	}
	files, err := driver.ExpandPaths(args)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files found in %s", strings.Join(args, ", "))
	}
	return files, nil
}

func driverOptions(cmd *cobra.Command, cfg config.Config) (driver.Options, error) {
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	cache, err := openCache(cmd, cfg)
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to open cache: %w", err)
	}
	return driver.Options{Config: cfg, Cache: cache, Timings: timings}, nil
}
