package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"shady/internal/diag"
	"shady/internal/source"
)

type palette struct {
	err, warn, info, note, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics for humans. Expects bag.Sort() to have been
// called. Each entry prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline and, when enabled, the
// notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeEntry(w, fs, pal, opts, d.Primary, pal.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			writeEntry(w, fs, pal, opts, n.Span, pal.note.Sprint("NOTE"), d.Code.ID(), n.Msg)
		}
	}
}

func writeEntry(w io.Writer, fs *source.FileSet, pal palette, opts PrettyOpts, sp source.Span, label, code, msg string) {
	if int(sp.File) >= fs.Len() {
		fmt.Fprintf(w, "%s %s: %s\n", label, code, msg)
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col),
		label, code, msg)

	first := start.Line
	last := start.Line
	if ctx := uint32(max(opts.Context, 0)); ctx > 0 { //nolint:gosec // clamped to non-negative
		first = max(1, start.Line-min(ctx, start.Line-1))
		last = start.Line + ctx
	}
	gutterWidth := len(fmt.Sprint(last))
	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		if ln > start.Line && text == "" && ln > uint32(len(f.LineIdx)) { //nolint:gosec // line count fits uint32
			break
		}
		text = clip(strings.ReplaceAll(text, "\t", "    "), opts.Width)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), text)
		if ln != start.Line {
			continue
		}
		line := f.GetLine(ln)
		col := int(start.Col) - 1
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			width = displayWidth(line, col, int(end.Col)-1)
		}
		pad := displayWidth(line, 0, col)
		underline := "^" + strings.Repeat("~", max(width-1, 0))
		fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(underline))
	}
}

// displayWidth measures line[from:to] in terminal cells.
func displayWidth(line string, from, to int) int {
	from = min(max(from, 0), len(line))
	to = min(max(to, from), len(line))
	return runewidth.StringWidth(strings.ReplaceAll(line[from:to], "\t", "    "))
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
