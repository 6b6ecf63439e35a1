package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StackEntry is one commit of the stack as shown by list and open.
// Position 1 is the commit closest to trunk.
type StackEntry struct {
	Position       int
	Hash           string
	Title          string
	Description    string
	Branch         string
	URL            string
	Number         int
	State          string
	ReviewDecision string
	Base           string
}

// Truncate truncates text to maxLen with an ellipsis if needed
// Uses lipgloss for proper ANSI-aware width handling
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	width := lipgloss.Width(text)
	if width <= maxLen {
		return text
	}

	if maxLen <= 3 {
		return lipgloss.NewStyle().MaxWidth(maxLen).Render(text)
	}

	return lipgloss.NewStyle().MaxWidth(maxLen-3).Render(text) + "..."
}

// Pad places text in a field of the given width
func Pad(text string, width int, align lipgloss.Position) string {
	return lipgloss.PlaceHorizontal(width, align, text)
}

// RenderKeyValue renders "key: value" with a dimmed key
func RenderKeyValue(key string, value string) string {
	keyStyled := DimStyle.Render(key + ":")
	return fmt.Sprintf("%s %s", keyStyled, value)
}

// PRLabel returns "#N" for an entry with a pull request and "local" otherwise
func PRLabel(e StackEntry) string {
	if e.URL == "" {
		return "local"
	}
	if e.Number > 0 {
		return "#" + strconv.Itoa(e.Number)
	}
	return e.URL
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// FormatEntryFinderLine formats an entry for fuzzy finder display.
// Fuzzy finder doesn't support ANSI codes, so we use plain text.
func FormatEntryFinderLine(e StackEntry) string {
	return fmt.Sprintf("%d %s %s %s",
		e.Position,
		PRLabel(e),
		e.Title,
		shortHash(e.Hash))
}

// FormatEntryPreview formats an entry for the fuzzy finder preview window.
// Preview pane supports ANSI codes, so we can use styling.
func FormatEntryPreview(e StackEntry) string {
	lines := []string{
		RenderKeyValue("Position", strconv.Itoa(e.Position)),
		RenderKeyValue("Title", Bold(e.Title)),
		RenderKeyValue("Commit", DimStyle.Render(e.Hash)),
	}
	if e.Branch != "" {
		lines = append(lines, RenderKeyValue("Branch", e.Branch))
	}

	if e.URL != "" {
		lines = append(lines,
			RenderKeyValue("PR", fmt.Sprintf("%s (%s)", PRLabel(e), StateIcon(e.State))),
			RenderKeyValue("Review", ReviewIcon(e.ReviewDecision)+" "+strings.ToLower(strings.ReplaceAll(e.ReviewDecision, "_", " "))),
			RenderKeyValue("URL", Highlight(e.URL)),
		)
		if e.Base != "" {
			lines = append(lines, RenderKeyValue("Base", e.Base))
		}
	}

	if e.Description != "" {
		lines = append(lines, "", Bold("Description:"), e.Description)
	}

	return strings.Join(lines, "\n")
}
