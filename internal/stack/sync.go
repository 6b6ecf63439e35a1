package stack

import (
	"context"
	"errors"
	"fmt"
	"os"

	stackerrors "github.com/bjulian5/stackpr/internal/errors"
	"github.com/bjulian5/stackpr/internal/git"
	"github.com/bjulian5/stackpr/internal/model"
	"github.com/bjulian5/stackpr/internal/ui"
)

// SyncOptions configures a sync
type SyncOptions struct {
	// ForceBootstrap rewrites every commit of the stack, not only those
	// without a pull request
	ForceBootstrap bool
	// ExecCommand is the shell command git runs after each commit during the
	// bootstrap rebase; it must end up calling RebaseStep
	ExecCommand string
	// Env is passed to the rebase-exec children in addition to the cache
	Env []string
}

// Sync publishes every commit between the remote trunk and HEAD and
// reconciles the pull request chain. Commits without a pull request are first
// bootstrapped through an interactive rebase that records the new URLs in
// their messages.
func (e *Engine) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	if err := e.checkWorktree(ctx); err != nil {
		return nil, err
	}

	// Resolve before the rebase so children inherit the values
	if _, err := e.TrunkRef(ctx); err != nil {
		return nil, err
	}
	if _, err := e.Login(ctx); err != nil {
		return nil, err
	}

	commits, err := e.LoadStack(ctx)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		trunkRef, _ := e.TrunkRef(ctx)
		ui.Infof("No commits between %s and HEAD", trunkRef)
		return &SyncResult{}, nil
	}

	pivot, err := e.findPivot(ctx, commits, opts.ForceBootstrap)
	if err != nil {
		return nil, err
	}
	if err := e.assignBranches(ctx, commits); err != nil {
		return nil, err
	}

	// Results of the rebase steps by PR URL
	var steps map[string]Result
	result := &SyncResult{}
	if pivot >= 0 {
		steps, err = e.bootstrap(ctx, commits[pivot], opts)
		if err != nil {
			return nil, err
		}
		result.Bootstrapped = true

		rebased, err := e.LoadStack(ctx)
		if err != nil {
			return nil, err
		}
		if len(rebased) != len(commits) {
			return nil, fmt.Errorf("stack changed size during bootstrap (%d commits, expected %d)", len(rebased), len(commits))
		}
		commits = rebased
		if err := e.assignBranches(ctx, commits); err != nil {
			return nil, err
		}
	}

	trunk, err := e.Trunk(ctx)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(commits))
	for _, c := range commits {
		urls = append(urls, c.PRURL)
	}

	for i := len(commits) - 1; i >= 0; i-- {
		c := commits[i]
		if !c.HasPR() {
			return nil, fmt.Errorf("commit %s has no pull request after bootstrap", c.ShortHash())
		}
		ui.CommitHeader(c.ShortHash(), c.Title)

		pushed, err := e.Push(ctx, c.Hash, c.Branch)
		if err != nil {
			return nil, err
		}
		result.Branches = append(result.Branches, BranchOutcome{Commit: c.Hash, Branch: c.Branch, Result: pushed})

		base := trunk
		if i < len(commits)-1 {
			base = commits[i+1].Branch
		}
		outcome, err := e.UpdatePR(ctx, c.PRURL, base, RenderManifest(urls, c.PRURL))
		if err != nil {
			return nil, err
		}
		outcome.Commit = c.Hash
		if r := steps[c.PRURL]; r == ResultCreated || r == ResultReplaced {
			outcome.Result = r
		}
		ui.PRStatus(outcome.URL, string(outcome.Result), outcome.ReviewDecision)
		result.PRs = append(result.PRs, outcome)
	}

	ui.SyncSummary(result.counts())
	return result, nil
}

// LoadStack parses the commits between the remote trunk and HEAD, newest first
func (e *Engine) LoadStack(ctx context.Context) ([]model.Commit, error) {
	trunkRef, err := e.TrunkRef(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := e.git.Log(ctx, trunkRef, "HEAD")
	if err != nil {
		return nil, err
	}
	return parseCommits(raw)
}

func parseCommits(raw string) ([]model.Commit, error) {
	commits, err := git.CollectLog(raw)
	if err != nil {
		var parseErr *git.ParseError
		if errors.As(err, &parseErr) {
			return nil, stackerrors.WrapUserError(err, "cannot parse commit history")
		}
		return nil, err
	}
	return commits, nil
}

func (e *Engine) checkWorktree(ctx context.Context) error {
	branch, err := e.git.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if branch == "" {
		if e.git.IsRebaseInProgress(ctx) {
			return stackerrors.NewUserError("a rebase is in progress; finish or abort it before syncing")
		}
		return stackerrors.WrapUserError(stackerrors.ErrNotOnBranch, "")
	}

	dirty, err := e.git.HasUncommittedChanges(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return stackerrors.WrapUserError(stackerrors.ErrDirtyWorktree, "cannot sync")
	}
	return nil
}

// findPivot returns the index (newest first) of the oldest commit that needs
// bootstrapping, or -1
func (e *Engine) findPivot(ctx context.Context, commits []model.Commit, force bool) (int, error) {
	trunk, err := e.Trunk(ctx)
	if err != nil {
		return -1, err
	}

	pivot := -1
	for i, c := range commits {
		if force || !c.HasPR() {
			pivot = i
			continue
		}
		pr, err := e.ViewPR(ctx, c.PRURL)
		if err != nil {
			return -1, err
		}
		switch {
		case IsAccidentallyMerged(pr):
			e.logger.Debug("accidentally merged", "url", c.PRURL, "base", pr.BaseBranch)
			pivot = i
		case pr.IsMerged():
			return -1, stackerrors.NewUserError(
				"%s (%s) is already merged into %s; rebase the stack onto the latest %s",
				c.PRURL, c.ShortHash(), pr.BaseBranch, trunk)
		}
	}
	return pivot, nil
}

// branchFor sets and returns the remote branch of c: the head of its pull
// request, or a name derived from its title when it needs a new one
func (e *Engine) branchFor(ctx context.Context, c *model.Commit) (string, error) {
	if c.HasPR() {
		pr, err := e.ViewPR(ctx, c.PRURL)
		if err != nil {
			return "", err
		}
		if !IsAccidentallyMerged(pr) {
			c.Branch = pr.HeadBranch
			return c.Branch, nil
		}
	}

	login, err := e.Login(ctx)
	if err != nil {
		return "", err
	}
	if slug(c.Title) == "" {
		return "", stackerrors.NewUserError("cannot derive a branch name from commit %s title %q", c.ShortHash(), c.Title)
	}
	c.Branch = BranchName(c.Title, login)
	return c.Branch, nil
}

// assignBranches resolves every commit's branch and rejects two commits
// sharing one
func (e *Engine) assignBranches(ctx context.Context, commits []model.Commit) error {
	owners := make(map[string]model.Commit, len(commits))
	for i := range commits {
		branch, err := e.branchFor(ctx, &commits[i])
		if err != nil {
			return err
		}
		if other, ok := owners[branch]; ok {
			return stackerrors.NewUserError(
				"commits %s (%q) and %s (%q) both map to branch %s; reword one of the titles",
				other.ShortHash(), other.Title, commits[i].ShortHash(), commits[i].Title, branch)
		}
		owners[branch] = commits[i]
	}
	return nil
}

// bootstrap rewrites the stack from pivot upwards, running ExecCommand after
// each commit, and returns what each step did by PR URL. A failed or
// interrupted rebase is aborted before returning.
func (e *Engine) bootstrap(ctx context.Context, pivot model.Commit, opts SyncOptions) (map[string]Result, error) {
	if opts.ExecCommand == "" {
		return nil, fmt.Errorf("no rebase-exec command configured")
	}

	stepFile, err := os.CreateTemp("", "stack-pr-steps-*.jsonl")
	if err != nil {
		return nil, fmt.Errorf("failed to create step results file: %w", err)
	}
	stepFile.Close()
	defer os.Remove(stepFile.Name())

	env := append(e.cache.Environ(), opts.Env...)
	env = append(env, EnvStepResults+"="+stepFile.Name())
	ui.Infof("Creating pull requests from %s %s", pivot.ShortHash(), pivot.Title)
	e.logger.Debug("bootstrap", "pivot", pivot.Hash, "exec", opts.ExecCommand)

	err = e.git.RebaseExec(ctx, pivot.Hash+"^", opts.ExecCommand, env)
	if err == nil {
		return readStepResults(stepFile.Name())
	}

	// ctx may be cancelled by an interrupt; the abort must still run
	cleanup := context.WithoutCancel(ctx)
	if e.git.IsRebaseInProgress(cleanup) {
		e.logger.Debug("aborting rebase", "error", err)
		if abortErr := e.git.RebaseAbort(cleanup); abortErr != nil {
			return nil, errors.Join(err, abortErr)
		}
		ui.Warning("Rebase aborted, history left unchanged")
	}
	return nil, err
}

func (r *SyncResult) counts() ui.SyncCounts {
	counts := ui.SyncCounts{}
	for _, b := range r.Branches {
		if b.Result == ResultPushed {
			counts.Pushed++
		}
	}
	for _, pr := range r.PRs {
		switch pr.Result {
		case ResultCreated, ResultReplaced:
			counts.Created++
		case ResultUpdated, ResultReopened:
			counts.Updated++
		default:
			counts.UpToDate++
		}
	}
	return counts
}
