package stack

import (
	"context"
	"strings"

	"github.com/bjulian5/stackpr/internal/ui"
)

const upToDateMarker = "Everything up-to-date"

// Push force-pushes hash to branch on the configured remote. The push is
// always attempted; git's own output decides whether anything changed.
func (e *Engine) Push(ctx context.Context, hash, branch string) (Result, error) {
	remote, err := e.Remote(ctx)
	if err != nil {
		return "", err
	}

	out, err := e.git.PushForce(ctx, remote, hash, branch)
	if err != nil {
		return "", err
	}

	result := ResultPushed
	if isUpToDate(out) {
		result = ResultUpToDate
	}
	e.logger.Debug("push", "commit", hash, "branch", branch, "result", result)
	ui.BranchStatus(remote, branch, string(result))
	return result, nil
}

// isUpToDate checks git push output for the no-op marker
func isUpToDate(output string) bool {
	return strings.Contains(output, upToDateMarker)
}
