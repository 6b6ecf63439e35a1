package stack

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/bjulian5/stackpr/internal/cache"
	"github.com/bjulian5/stackpr/internal/gh"
	"github.com/bjulian5/stackpr/internal/model"
)

type fakeCommit struct {
	hash    string
	message string
}

// fakeGit simulates a repository with a trunk and a stack of commits on top
// of it. RebaseExec replays the stack and calls stepHook for every commit, the
// way git runs the exec line in a child process.
type fakeGit struct {
	trunk    []fakeCommit
	stack    []fakeCommit // oldest first
	applied  []fakeCommit // commits replayed so far while rebasing
	rebasing bool
	aborted  bool
	branch   string
	dirty    bool
	template string
	remote   map[string]string
	pushes   []string
	nextHash int
	stepHook func(env []string) error
}

func newFakeGit(titles ...string) *fakeGit {
	g := &fakeGit{branch: "feature", remote: make(map[string]string)}
	g.trunk = []fakeCommit{{hash: g.newHash(), message: "Initial commit\n"}}
	for _, title := range titles {
		g.stack = append(g.stack, fakeCommit{hash: g.newHash(), message: title + "\n"})
	}
	return g
}

func (g *fakeGit) newHash() string {
	g.nextHash++
	return fmt.Sprintf("%040x", g.nextHash)
}

func (g *fakeGit) head() []fakeCommit {
	if g.rebasing {
		return g.applied
	}
	return g.stack
}

func (g *fakeGit) trunkTip() string {
	return g.trunk[len(g.trunk)-1].hash
}

func (g *fakeGit) messages() []string {
	var out []string
	for _, c := range g.stack {
		out = append(out, c.message)
	}
	return out
}

func formatLog(commits []fakeCommit) string {
	var sb strings.Builder
	for i := len(commits) - 1; i >= 0; i-- {
		sb.WriteString("\x1e" + commits[i].hash + "\n" + commits[i].message + "\n")
	}
	return sb.String()
}

func (g *fakeGit) GitRoot() string { return "/repo" }

func (g *fakeGit) Log(_ context.Context, base, head string) (string, error) {
	if base != "origin/master" || head != "HEAD" {
		return "", fmt.Errorf("unexpected range %s..%s", base, head)
	}
	return formatLog(g.head()), nil
}

func (g *fakeGit) LogLast(_ context.Context, ref string, n int) (string, error) {
	all := append(slices.Clone(g.trunk), g.head()...)
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return formatLog(all), nil
}

func (g *fakeGit) RevParse(_ context.Context, ref string) (string, error) {
	return g.trunkTip(), nil
}

func (g *fakeGit) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	for _, c := range g.trunk {
		if c.hash == ancestor {
			return true, nil
		}
	}
	return false, nil
}

func (g *fakeGit) CurrentBranch(context.Context) (string, error) {
	if g.rebasing {
		return "", nil
	}
	return g.branch, nil
}

func (g *fakeGit) HasUncommittedChanges(context.Context) (bool, error) { return g.dirty, nil }

func (g *fakeGit) IsRebaseInProgress(context.Context) bool { return g.rebasing }

func (g *fakeGit) PushForce(_ context.Context, remote, ref, branch string) (string, error) {
	g.pushes = append(g.pushes, branch)
	if g.remote[branch] == ref {
		return "Everything up-to-date\n", nil
	}
	old := g.remote[branch]
	g.remote[branch] = ref
	return fmt.Sprintf("To github.com:o/r.git\n + %.7s...%.7s %s -> %s (forced update)\n", old, ref, ref, branch), nil
}

func (g *fakeGit) AmendMessage(_ context.Context, message string) error {
	if !g.rebasing || len(g.applied) == 0 {
		return fmt.Errorf("amend outside of rebase")
	}
	g.applied[len(g.applied)-1] = fakeCommit{hash: g.newHash(), message: strings.TrimRight(message, "\n") + "\n"}
	return nil
}

func (g *fakeGit) RebaseExec(_ context.Context, upstream, command string, env []string) error {
	pivot := slices.IndexFunc(g.stack, func(c fakeCommit) bool { return c.hash+"^" == upstream })
	if pivot < 0 {
		return fmt.Errorf("unknown upstream %s", upstream)
	}

	g.rebasing = true
	g.applied = slices.Clone(g.stack[:pivot])
	changed := false
	for _, c := range g.stack[pivot:] {
		if changed {
			c.hash = g.newHash()
		}
		g.applied = append(g.applied, c)
		before := g.applied[len(g.applied)-1].hash
		if err := g.stepHook(env); err != nil {
			return err
		}
		if g.applied[len(g.applied)-1].hash != before {
			changed = true
		}
	}
	g.stack = g.applied
	g.applied = nil
	g.rebasing = false
	return nil
}

func (g *fakeGit) RebaseAbort(context.Context) error {
	g.rebasing = false
	g.applied = nil
	g.aborted = true
	return nil
}

func (g *fakeGit) DefaultRemote(context.Context) (string, error) { return "origin", nil }

func (g *fakeGit) FindPRTemplate(string) (string, error) { return g.template, nil }

// fakeHost keeps pull requests in memory and behaves like GitHub for the
// operations the engine uses
type fakeHost struct {
	prs     map[string]*model.PullRequest
	next    int
	creates int
	edits   int
	reopens int
}

func newFakeHost() *fakeHost {
	return &fakeHost{prs: make(map[string]*model.PullRequest)}
}

func (h *fakeHost) add(pr model.PullRequest) string {
	h.next++
	pr.Number = h.next
	pr.URL = fmt.Sprintf("https://github.com/o/r/pull/%d", h.next)
	h.prs[pr.URL] = &pr
	return pr.URL
}

func (h *fakeHost) CurrentLogin(context.Context) (string, error) { return "octocat", nil }

func (h *fakeHost) DefaultBranch(context.Context) (string, error) { return "master", nil }

func (h *fakeHost) ViewPR(_ context.Context, url string) (*model.PullRequest, error) {
	pr, ok := h.prs[url]
	if !ok {
		return nil, fmt.Errorf("no such PR %s", url)
	}
	cp := *pr
	return &cp, nil
}

func (h *fakeHost) CreatePR(_ context.Context, base, head, title, body string) (string, error) {
	for _, pr := range h.prs {
		if pr.HeadBranch == head && pr.IsOpen() {
			return "", &gh.AlreadyExistsError{URL: pr.URL}
		}
	}
	h.creates++
	return h.add(model.PullRequest{
		Title:      title,
		Body:       body,
		BaseBranch: base,
		HeadBranch: head,
		State:      model.StateOpen,
	}), nil
}

func (h *fakeHost) EditPR(_ context.Context, url, base, body string) error {
	h.edits++
	h.prs[url].BaseBranch = base
	h.prs[url].Body = body
	return nil
}

func (h *fakeHost) ReopenPR(_ context.Context, url, comment string) error {
	h.reopens++
	h.prs[url].State = model.StateOpen
	return nil
}

func (h *fakeHost) OpenInBrowser(context.Context, string) error { return nil }

// newTestEngine wires an engine to the fakes, running every rebase step in a
// child engine rebuilt from the environment git would pass down
func newTestEngine(t *testing.T, g *fakeGit, h *fakeHost) *Engine {
	t.Helper()
	config := (&Config{}).withDefaults()
	g.stepHook = func(env []string) error {
		child := NewEngine(g, h, cache.FromEnviron(env, nil), config, Options{
			StepResults: envValue(env, EnvStepResults),
		})
		_, err := child.RebaseStep(context.Background())
		return err
	}
	return NewEngine(g, h, cache.New(nil), config, Options{})
}

func envValue(env []string, name string) string {
	for _, kv := range env {
		if value, ok := strings.CutPrefix(kv, name+"="); ok {
			return value
		}
	}
	return ""
}

var testSyncOptions = SyncOptions{ExecCommand: "stack-pr hook rebase-exec"}

// MockHost is a testify mock of Host
type MockHost struct {
	mock.Mock
}

func (m *MockHost) CurrentLogin(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockHost) DefaultBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockHost) ViewPR(ctx context.Context, url string) (*model.PullRequest, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PullRequest), args.Error(1)
}

func (m *MockHost) CreatePR(ctx context.Context, base, head, title, body string) (string, error) {
	args := m.Called(ctx, base, head, title, body)
	return args.String(0), args.Error(1)
}

func (m *MockHost) EditPR(ctx context.Context, url, base, body string) error {
	args := m.Called(ctx, url, base, body)
	return args.Error(0)
}

func (m *MockHost) ReopenPR(ctx context.Context, url, comment string) error {
	args := m.Called(ctx, url, comment)
	return args.Error(0)
}

func (m *MockHost) OpenInBrowser(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}
