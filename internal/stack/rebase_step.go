package stack

import (
	"context"
	"fmt"

	stackerrors "github.com/bjulian5/stackpr/internal/errors"
	"github.com/bjulian5/stackpr/internal/git"
	"github.com/bjulian5/stackpr/internal/ui"
)

// RebaseStep handles one commit of the bootstrap rebase. It runs in a fresh
// process after git picks each commit and works out everything from the
// repository: HEAD is the commit to publish, HEAD^ its predecessor.
func (e *Engine) RebaseStep(ctx context.Context) (*StepResult, error) {
	if !e.git.IsRebaseInProgress(ctx) {
		return nil, stackerrors.WrapUserError(stackerrors.ErrNotRebasing, "rebase-exec runs only inside stack-pr sync")
	}

	raw, err := e.git.LogLast(ctx, "HEAD", 2)
	if err != nil {
		return nil, err
	}
	commits, err := parseCommits(raw)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("HEAD has no commits")
	}
	current := commits[0]
	ui.CommitHeader(current.ShortHash(), current.Title)

	trunk, err := e.Trunk(ctx)
	if err != nil {
		return nil, err
	}
	trunkRef, err := e.TrunkRef(ctx)
	if err != nil {
		return nil, err
	}

	base := trunk
	if len(commits) > 1 {
		prev := commits[1]
		inTrunk, err := e.git.IsAncestor(ctx, prev.Hash, trunkRef)
		if err != nil {
			return nil, err
		}
		if !inTrunk {
			branch, err := e.branchFor(ctx, &prev)
			if err != nil {
				return nil, err
			}
			if _, err := e.Push(ctx, prev.Hash, branch); err != nil {
				return nil, err
			}
			base = branch
		}
	}

	title := current.Title
	var body *string
	created := ResultCreated
	if current.HasPR() {
		pr, err := e.ViewPR(ctx, current.PRURL)
		if err != nil {
			return nil, err
		}
		if IsAccidentallyMerged(pr) {
			ui.Warningf("%s was merged into %s, replacing it", current.PRURL, pr.BaseBranch)
			title = pr.Title
			oldBody := pr.Body
			body = &oldBody
			current.PRURL = ""
			created = ResultReplaced
		}
	}

	branch, err := e.branchFor(ctx, &current)
	if err != nil {
		return nil, err
	}
	if _, err := e.Push(ctx, current.Hash, branch); err != nil {
		return nil, err
	}

	outcome := PROutcome{URL: current.PRURL, Base: base, Result: ResultUpToDate}
	if !current.HasPR() {
		outcome, err = e.CreateOrGetPR(ctx, base, branch, title, body)
		if err != nil {
			return nil, err
		}
		if outcome.Result == ResultCreated {
			outcome.Result = created
		}
	}
	outcome.Commit = current.Hash
	ui.PRStatus(outcome.URL, string(outcome.Result), outcome.ReviewDecision)

	message := git.Message(current.Title, current.Description)
	if amended := git.SetPRTrailer(message, outcome.URL); amended != message {
		if err := e.git.AmendMessage(ctx, amended); err != nil {
			return nil, err
		}
	}

	step := &StepResult{Commit: current.Hash, Branch: branch, PR: outcome}
	if e.steps != "" {
		if err := appendStepResult(e.steps, step); err != nil {
			return nil, err
		}
	}
	return step, nil
}
