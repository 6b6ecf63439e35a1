package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// NewStackTable creates a new table with bordered, zebra-striped defaults
func NewStackTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorderStyle).
		BorderRow(false).
		BorderColumn(true).
		StyleFunc(defaultTableStyleFunc)
}

func defaultTableStyleFunc(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return TableHeaderStyle
	case row%2 == 0:
		return TableCellStyle
	default:
		return TableRowAltStyle
	}
}

// RenderStackTable renders entries newest first, the way they appear in the
// manifest
func RenderStackTable(entries []StackEntry) string {
	titleWidth := max(GetTerminalWidth()-110, 20)

	t := NewStackTable().Headers("#", "COMMIT", "BRANCH", "PR", "STATE", "REVIEW", "TITLE")
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		pos := strconv.Itoa(e.Position)
		review := ""
		if e.URL != "" {
			review = ReviewIcon(e.ReviewDecision)
		}
		t.Row(pos, shortHash(e.Hash), Truncate(e.Branch, 40), PRLabel(e), StateIcon(e.State), review, Truncate(e.Title, titleWidth))
	}
	return t.Render()
}
