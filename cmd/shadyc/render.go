package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"shady/internal/config"
	"shady/internal/diag"
	"shady/internal/diagfmt"
	"shady/internal/source"
	"shady/internal/version"
)

// renderDiagnostics writes bag in the requested format. An empty format
// falls back to [diagnostics].format.
func renderDiagnostics(cmd *cobra.Command, w io.Writer, bag *diag.Bag, fs *source.FileSet, cfg config.Config, format string) error {
	if format == "" {
		format = cfg.Diagnostics.Format
	}
	pathMode, ok := diagfmt.ParsePathMode(cfg.Diagnostics.PathMode)
	if !ok {
		pathMode = diagfmt.PathModeAuto
	}

	switch strings.ToLower(format) {
	case "pretty":
		if bag.Len() == 0 {
			return nil
		}
		colored, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		ctxLines, err := safecast.Conv[int8](cfg.Diagnostics.Context)
		if err != nil {
			return fmt.Errorf("[diagnostics].context: %w", err)
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   ctxLines,
			PathMode:  pathMode,
			ShowNotes: cfg.Diagnostics.Notes,
		})
		return nil
	case "short":
		_, err := io.WriteString(w, diag.FormatShort(bag.Items(), fs, cfg.Diagnostics.Notes))
		return err
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     cfg.Diagnostics.Notes,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "shadyc",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		})
	default:
		return fmt.Errorf("unknown format %q (expected pretty|short|json|sarif)", format)
	}
}
