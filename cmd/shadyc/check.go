package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shady/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [files or dirs...]",
	Short: "Load, build and verify IR files",
	Long: `Loads every file into its own arena, runs the configured passes and prints
the diagnostics. Directories are searched for .shd and .shady files. Exits
with status 1 when any file has errors.`,
	RunE: runCheckCommand,
}

func init() {
	checkCmd.Flags().String("format", "", "diagnostic format (pretty|short|json|sarif; default from config)")
	checkCmd.Flags().StringSlice("passes", nil, fmt.Sprintf("passes to run, in order (known: %v)", driver.PassNames()))
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
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
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	uiFlag, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	// Machine-readable output must not be interleaved with the view.
	if format == "json" || format == "sarif" {
		mode = uiModeOff
	}

	cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := driverOptions(cmd, cfg)
	if err != nil {
		return err
	}
	res, err := runCheck(cmd.Context(), "check", files, opts, mode)
	if err != nil {
		return err
	}

	if err := renderDiagnostics(cmd, cmd.ErrOrStderr(), res.Bag(), res.FileSet, cfg, format); err != nil {
		return err
	}
	if res.HasErrors() {
		return errFailed
	}
	return nil
}
