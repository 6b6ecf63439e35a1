// Package stack reconciles a linear chain of local commits with a chain of
// remote branches and pull requests.
package stack

import (
	"context"

	"github.com/bjulian5/stackpr/internal/model"
)

// Result classifies what happened to a branch or pull request during a run
type Result string

const (
	ResultPushed   Result = "pushed"
	ResultUpToDate Result = "up-to-date"
	ResultCreated  Result = "created"
	ResultUpdated  Result = "updated"
	ResultReopened Result = "reopened"
	ResultReplaced Result = "replaced"
)

// GitClient defines the git operations needed by the engine
type GitClient interface {
	GitRoot() string
	Log(ctx context.Context, base, head string) (string, error)
	LogLast(ctx context.Context, ref string, n int) (string, error)
	RevParse(ctx context.Context, ref string) (string, error)
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
	CurrentBranch(ctx context.Context) (string, error)
	HasUncommittedChanges(ctx context.Context) (bool, error)
	IsRebaseInProgress(ctx context.Context) bool
	PushForce(ctx context.Context, remote, ref, branch string) (string, error)
	AmendMessage(ctx context.Context, message string) error
	RebaseExec(ctx context.Context, upstream, command string, env []string) error
	RebaseAbort(ctx context.Context) error
	DefaultRemote(ctx context.Context) (string, error)
	FindPRTemplate(startDir string) (string, error)
}

// Host defines the hosting platform operations needed by the engine
type Host interface {
	CurrentLogin(ctx context.Context) (string, error)
	DefaultBranch(ctx context.Context) (string, error)
	ViewPR(ctx context.Context, url string) (*model.PullRequest, error)
	CreatePR(ctx context.Context, base, head, title, body string) (string, error)
	EditPR(ctx context.Context, url, base, body string) error
	ReopenPR(ctx context.Context, url, comment string) error
	OpenInBrowser(ctx context.Context, url string) error
}

// BranchOutcome reports one branch push
type BranchOutcome struct {
	Commit string
	Branch string
	Result Result
}

// PROutcome reports one pull request reconciliation
type PROutcome struct {
	Commit         string `json:"commit"`
	URL            string `json:"url"`
	Base           string `json:"base"`
	Result         Result `json:"result"`
	ReviewDecision string `json:"reviewDecision,omitempty"`
}

// SyncResult lists everything a sync did, oldest commit first
type SyncResult struct {
	Bootstrapped bool
	Branches     []BranchOutcome
	PRs          []PROutcome
}

// StepResult reports one rebase-exec step
type StepResult struct {
	Commit string    `json:"commit"`
	Branch string    `json:"branch"`
	PR     PROutcome `json:"pr"`
}
