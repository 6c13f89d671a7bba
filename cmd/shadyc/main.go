package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"shady/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "shadyc",
	Short:         "Shady IR toolkit",
	Long:          `shadyc loads textual shader IR into a hash-consed node graph, verifies it and prints it back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopProfiling = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfiling()
	},
}

// stopProfiling is replaced by the pre-run hook.
var stopProfiling = func() {}

// errFailed signals that diagnostics with errors were already printed.
var errFailed = errors.New("check failed")

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to shady.toml (default: discovered from the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("ui", "auto", "progress UI (auto|on|off)")
	pf.Int("jobs", 0, "files checked in parallel (0 = config or GOMAXPROCS)")
	pf.Int("max-diagnostics", 0, "maximum diagnostics per file (0 = config)")
	pf.Bool("timings", false, "report phase timings")
	pf.Bool("no-cache", false, "ignore the result cache")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 0, "ring buffer capacity")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

func main() {
	err := rootCmd.Execute()
	// PersistentPostRun is skipped when the command fails.
	stopProfiling()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "shadyc: %v\n", err)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
