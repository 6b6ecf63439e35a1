package stack

import (
	"context"
	"slices"

	stackerrors "github.com/bjulian5/stackpr/internal/errors"
	"github.com/bjulian5/stackpr/internal/gh"
	"github.com/bjulian5/stackpr/internal/git"
	"github.com/bjulian5/stackpr/internal/ui"
)

// Entries describes the stack for display, oldest commit first. Commits
// without a pull request are included with an empty URL.
func (e *Engine) Entries(ctx context.Context) ([]ui.StackEntry, error) {
	commits, err := e.LoadStack(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(commits)

	entries := make([]ui.StackEntry, 0, len(commits))
	for i, c := range commits {
		entry := ui.StackEntry{
			Position:    i + 1,
			Hash:        c.Hash,
			Title:       c.Title,
			Description: c.Description,
		}
		if c.HasPR() {
			pr, err := e.ViewPR(ctx, c.PRURL)
			if err != nil {
				return nil, err
			}
			entry.URL = c.PRURL
			entry.Number = pr.Number
			if entry.Number == 0 {
				entry.Number, _ = gh.PRNumberFromURL(c.PRURL)
			}
			entry.State = pr.State
			entry.ReviewDecision = pr.ReviewDecision
			entry.Base = pr.BaseBranch
			entry.Branch = pr.HeadBranch
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// OpenPR opens the pull request of entry in the browser
func (e *Engine) OpenPR(ctx context.Context, entry ui.StackEntry) error {
	if entry.URL == "" {
		return stackerrors.NewUserError("commit %s %q has no pull request yet; run sync first", git.ShortHash(entry.Hash), entry.Title)
	}
	return e.host.OpenInBrowser(ctx, entry.URL)
}
