package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"shady/internal/driver"
	"shady/internal/ir"
)

var printCmd = &cobra.Command{
	Use:   "print [files...]",
	Short: "Print the node graph of IR files after the passes",
	Long: `Builds every file, runs the configured passes and prints each arena in
textual IR. The output can be read back by check and print.`,
	RunE: runPrintCommand,
}

func init() {
	printCmd.Flags().Bool("types", false, "annotate nodes with their derived type")
	printCmd.Flags().Bool("hashes", false, "annotate structural nodes with their hash")
	printCmd.Flags().StringSlice("passes", nil, fmt.Sprintf("passes to run, in order (known: %v)", driver.PassNames()))
	printCmd.Flags().Bool("dump-after-each", false, "print the arena after every pass")
}

func runPrintCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyPasses(cmd, &cfg); err != nil {
		return err
	}
	files, err := inputFiles(cfg, args)
	if err != nil {
		return err
	}
	var popts ir.PrintOptions
	if popts.Types, err = cmd.Flags().GetBool("types"); err != nil {
		return fmt.Errorf("failed to get types flag: %w", err)
	}
	if popts.Hashes, err = cmd.Flags().GetBool("hashes"); err != nil {
		return fmt.Errorf("failed to get hashes flag: %w", err)
	}
	dumpEach, err := cmd.Flags().GetBool("dump-after-each")
	if err != nil {
		return fmt.Errorf("failed to get dump-after-each flag: %w", err)
	}

	cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	opts, err := driverOptions(cmd, cfg)
	if err != nil {
		return err
	}
	opts.Cache = nil
	opts.KeepArenas = true
	if dumpEach {
		var mu sync.Mutex
		opts.AfterPass = func(_ context.Context, u *driver.Unit, pass string) error {
			mu.Lock()
			defer mu.Unlock()
			return printUnit(out, u, fmt.Sprintf("after %s", pass), popts)
		}
	}

	res, err := driver.Check(cmd.Context(), files, opts)
	if err != nil {
		return err
	}
	defer res.Release()

	if err := renderDiagnostics(cmd, cmd.ErrOrStderr(), res.Bag(), res.FileSet, cfg, ""); err != nil {
		return err
	}
	for _, u := range res.Units {
		if u.Arena == nil {
			continue
		}
		header := ""
		if len(res.Units) > 1 {
			header = "final"
		}
		if err := printUnit(out, u, header, popts); err != nil {
			return err
		}
	}
	if res.HasErrors() {
		return errFailed
	}
	return nil
}

func printUnit(w io.Writer, u *driver.Unit, header string, opts ir.PrintOptions) error {
	if header != "" {
		if _, err := fmt.Fprintf(w, "# %s: %s\n", header, u.Path); err != nil {
			return err
		}
	}
	return ir.Print(w, u.Arena, opts)
}
