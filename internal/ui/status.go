package ui

import (
	"fmt"
	"strings"
)

// Review decision icons
const (
	IconApproved         = "✔"
	IconChangesRequested = "✘"
	IconReviewRequired   = "…"
	IconNoReview         = "·"
)

// Status icons
const (
	IconOpen   = "●"
	IconMerged = "◆"
	IconClosed = "○"
	IconLocal  = "◯"
)

// ReviewIcon returns the styled icon for a review decision
func ReviewIcon(decision string) string {
	switch decision {
	case "APPROVED":
		return SuccessStyle.Render(IconApproved)
	case "CHANGES_REQUESTED":
		return ErrorStyle.Render(IconChangesRequested)
	case "REVIEW_REQUIRED":
		return WarningStyle.Render(IconReviewRequired)
	default:
		return DimStyle.Render(IconNoReview)
	}
}

// StateIcon returns the styled icon and label for a PR state. An empty state
// means the commit has no pull request yet.
func StateIcon(state string) string {
	icon, label := IconLocal, "local"
	switch state {
	case "OPEN":
		icon, label = IconOpen, "open"
	case "MERGED":
		icon, label = IconMerged, "merged"
	case "CLOSED":
		icon, label = IconClosed, "closed"
	}
	return GetStatusStyle(state).Render(icon + " " + label)
}

// CommitHeader prints the header line for a commit being processed
func CommitHeader(shortHash, title string) {
	fmt.Fprintln(stdout, Highlight(shortHash)+" "+Bold(Truncate(title, GetTerminalWidth()-10)))
}

// BranchStatus prints the outcome of a branch push
func BranchStatus(remote, branch, result string) {
	fmt.Fprintf(stdout, "  %-6s %s  %s\n", "branch", Dim(remote+"/")+branch, GetResultStyle(result).Render(result))
}

// PRStatus prints the outcome of a pull request reconciliation
func PRStatus(url, result, reviewDecision string) {
	fmt.Fprintf(stdout, "  %-6s %s  %s %s\n", "pr", url, GetResultStyle(result).Render(result), ReviewIcon(reviewDecision))
}

// SyncCounts summarises a sync
type SyncCounts struct {
	Pushed   int
	Created  int
	Updated  int
	UpToDate int
}

// FormatSyncSummary formats the summary line of a sync
// e.g., "2 pushed, 1 created, 1 updated, 3 up-to-date"
func FormatSyncSummary(c SyncCounts) string {
	var parts []string
	if c.Pushed > 0 {
		parts = append(parts, fmt.Sprintf("%d pushed", c.Pushed))
	}
	if c.Created > 0 {
		parts = append(parts, fmt.Sprintf("%d created", c.Created))
	}
	if c.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", c.Updated))
	}
	if c.UpToDate > 0 {
		parts = append(parts, fmt.Sprintf("%d up-to-date", c.UpToDate))
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}

// SyncSummary prints the final line of a sync
func SyncSummary(c SyncCounts) {
	if c.Pushed == 0 && c.Created == 0 && c.Updated == 0 {
		Success("Stack is up to date")
		return
	}
	Successf("Stack synced: %s", FormatSyncSummary(c))
}
