package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderTable lays rows out in left-aligned columns under a bold header.
func renderTable(headers []string, rows [][]string, colored bool) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	headerStyle := lipgloss.NewStyle()
	if colored {
		headerStyle = headerStyle.Bold(true).Foreground(lipgloss.Color("6"))
	}
	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			pad := widths[i] - lipgloss.Width(cell)
			parts[i] = style.Render(cell) + strings.Repeat(" ", pad)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(line(headers, headerStyle))
	b.WriteByte('\n')
	plain := lipgloss.NewStyle()
	for _, row := range rows {
		b.WriteString(line(row, plain))
		b.WriteByte('\n')
	}
	return b.String()
}
