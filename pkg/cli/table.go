package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // Header/accent color
	Dim     lipgloss.Color // Border color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Header lipgloss.Style
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Table renders rows of cells as a bordered terminal table.
type Table struct {
	Columns []string
	Rows    [][]string

	// MaxCellWidth truncates cells wider than this many columns.
	// Zero means no limit.
	MaxCellWidth int
}

// Render renders the table to a string.
func (t Table) Render() string {
	st := NewStyles(DefaultTheme)

	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = lipgloss.Width(col)
	}
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if t.MaxCellWidth > 0 && lipgloss.Width(cell) > t.MaxCellWidth {
				cell = truncateString(cell, t.MaxCellWidth-1) + "…"
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
			cells[i] = cell
		}
		rows[r] = cells
	}

	var lines []string
	lines = append(lines, st.Border.Render(tableRule("╭", "┬", "╮", widths)))
	lines = append(lines, tableRow(st, t.Columns, widths, true))
	lines = append(lines, st.Border.Render(tableRule("├", "┼", "┤", widths)))
	for _, row := range rows {
		lines = append(lines, tableRow(st, row, widths, false))
	}
	lines = append(lines, st.Border.Render(tableRule("╰", "┴", "╯", widths)))

	return strings.Join(lines, "\n")
}

// tableRule renders a horizontal border: left ── mid ── right.
func tableRule(left, mid, right string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return left + strings.Join(parts, mid) + right
}

// tableRow renders one row with padded cells: │ a │ b │
func tableRow(st Styles, cells []string, widths []int, header bool) string {
	sep := st.Border.Render("│")

	var b strings.Builder
	b.WriteString(sep)
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
		if header {
			cell = st.Header.Render(cell)
		}
		b.WriteString(" " + cell + pad + " ")
		b.WriteString(sep)
	}
	return b.String()
}

// truncateString safely truncates a string to the given width,
// handling multi-byte characters correctly.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	currentWidth := 0
	for i, r := range runes {
		w := lipgloss.Width(string(r))
		if currentWidth+w > width {
			return string(runes[:i])
		}
		currentWidth += w
	}
	return s
}
