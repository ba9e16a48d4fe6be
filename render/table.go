package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/spektr-org/dimreport/engine"
)

// ============================================================================
// TABLE OUTPUT — Bordered terminal table
// ============================================================================
// Columns come from the first row; every row is rendered against that
// header. Numeric cells are right-aligned.
// ============================================================================

var (
	primaryColor   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7C79FF"}
	secondaryColor = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#F780FF"}
	mutedColor     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)

	borderStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// WriteTable renders rows as a table under an optional title.
func WriteTable(w io.Writer, title string, rows []engine.Row) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, TitleStyle.Render(title)); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, NoData)
		return err
	}

	headers := rows[0].Keys()
	numeric := numericColumns(rows, headers)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col < len(numeric) && numeric[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
	for _, row := range rows {
		t.Row(cells(row, headers)...)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// numericColumns marks columns whose present values are all numbers.
func numericColumns(rows []engine.Row, headers []string) []bool {
	numeric := make([]bool, len(headers))
	for i, h := range headers {
		seen := false
		numeric[i] = true
		for _, row := range rows {
			v := row.Get(h)
			if v == nil {
				continue
			}
			seen = true
			if !isNumber(v) {
				numeric[i] = false
				break
			}
		}
		numeric[i] = numeric[i] && seen
	}
	return numeric
}
