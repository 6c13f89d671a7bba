package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [files or dirs...]",
	Short: "Show node and interning statistics per file",
	RunE:  runStatsCommand,
}

func runStatsCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	files, err := inputFiles(cfg, args)
	if err != nil {
		return err
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
	res, err := runCheck(cmd.Context(), "stats", files, opts, uiModeOff)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(res.Units))
	for _, u := range res.Units {
		s := u.Stats
		cached := ""
		if u.Cached {
			cached = "yes"
		}
		rows = append(rows, []string{
			u.Path,
			strconv.Itoa(u.Nodes),
			strconv.Itoa(s.Entries),
			strconv.Itoa(s.Nominal),
			strconv.FormatUint(s.Hits, 10),
			strconv.FormatUint(s.Misses, 10),
			strconv.Itoa(s.LongestChain),
			strconv.Itoa(u.Bag.Len()),
			cached,
		})
	}
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	headers := []string{"file", "nodes", "interned", "nominal", "hits", "misses", "chain", "diags", "cached"}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), renderTable(headers, rows, colored)); err != nil {
		return err
	}
	if res.HasErrors() {
		if err := renderDiagnostics(cmd, cmd.ErrOrStderr(), res.Bag(), res.FileSet, cfg, ""); err != nil {
			return err
		}
		return errFailed
	}
	return nil
}
