package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	stackerrors "github.com/bjulian5/stackpr/internal/errors"
)

// logFormat prefixes every commit with a record separator, then the full hash
// on its own line, then the raw message.
const logFormat = "--format=%x1e%H%n%B"

// Client provides git operations for a repository
type Client struct {
	gitRoot string
	logger  *slog.Logger
}

// NewClient creates a new git client for the repository containing the
// current directory
func NewClient(logger *slog.Logger) (*Client, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewClientAt(wd, logger)
}

// NewClientAt creates a new git client for the repository containing dir
func NewClientAt(dir string, logger *slog.Logger) (*Client, error) {
	gitRoot, err := findGitRoot(dir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{gitRoot: gitRoot, logger: logger}, nil
}

// findGitRoot locates the top of the work tree containing dir
func findGitRoot(dir string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// WithLogger returns a copy of the client that logs to logger
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	clone := *c
	clone.logger = logger
	return &clone
}

// GitRoot returns the root directory of the git repository
func (c *Client) GitRoot() string {
	return c.gitRoot
}

// Log returns raw log text for the commits reachable from head but not from
// base, newest first
func (c *Client) Log(ctx context.Context, base, head string) (string, error) {
	out, err := c.runRaw(ctx, "log", logFormat, fmt.Sprintf("%s..%s", base, head))
	if err != nil {
		return "", fmt.Errorf("failed to read log %s..%s: %w", base, head, err)
	}
	return out, nil
}

// LogLast returns raw log text for the last n commits of ref, newest first
func (c *Client) LogLast(ctx context.Context, ref string, n int) (string, error) {
	out, err := c.runRaw(ctx, "log", logFormat, "-n", fmt.Sprintf("%d", n), ref)
	if err != nil {
		return "", fmt.Errorf("failed to read last %d commits of %s: %w", n, ref, err)
	}
	return out, nil
}

// RevParse returns the commit hash for a given ref
func (c *Client) RevParse(ctx context.Context, ref string) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("failed to get commit hash for %s: %w", ref, err)
	}
	return out, nil
}

// IsAncestor checks whether ancestor is reachable from descendant
func (c *Client) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	_, err := c.run(ctx, "merge-base", "--is-ancestor", ancestor, descendant)
	if err == nil {
		return true, nil
	}
	var cmdErr *stackerrors.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
		return false, nil
	}
	return false, fmt.Errorf("failed to compare %s with %s: %w", ShortHash(ancestor), descendant, err)
}

// CurrentBranch returns the name of the checked out branch, or an empty
// string when HEAD is detached
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		// symbolic-ref exits 1 on a detached HEAD
		if _, headErr := c.run(ctx, "rev-parse", "--verify", "HEAD"); headErr == nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return out, nil
}

// HasUncommittedChanges checks for staged or unstaged changes to tracked files
func (c *Client) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, fmt.Errorf("failed to check git status: %w", err)
	}
	return out != "", nil
}

// PushForce force-pushes ref to branch on remote and returns git's combined
// output. Git reports "Everything up-to-date" on stderr, so both streams are kept.
func (c *Client) PushForce(ctx context.Context, remote, ref, branch string) (string, error) {
	out, err := c.runWith(ctx, runOptions{combine: true},
		"push", "--force", remote, fmt.Sprintf("%s:refs/heads/%s", ref, branch))
	if err != nil {
		return out, fmt.Errorf("failed to push %s to %s/%s: %w", ref, remote, branch, err)
	}
	return out, nil
}

// AmendMessage replaces the message of the HEAD commit. The message is passed
// on stdin with whitespace cleanup only, so lines starting with '#' survive.
func (c *Client) AmendMessage(ctx context.Context, message string) error {
	_, err := c.runWith(ctx, runOptions{stdin: message},
		"commit", "--amend", "--allow-empty", "--no-verify", "--cleanup=whitespace", "-F", "-")
	if err != nil {
		return fmt.Errorf("failed to amend commit: %w", err)
	}
	return nil
}

// Remotes returns the configured remote names in git's order
func (c *Client) Remotes(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "remote")
	if err != nil {
		return nil, fmt.Errorf("failed to get remote: %w", err)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// DefaultRemote returns the first configured remote (usually "origin")
func (c *Client) DefaultRemote(ctx context.Context) (string, error) {
	remotes, err := c.Remotes(ctx)
	if err != nil {
		return "", err
	}
	if len(remotes) == 0 {
		return "", fmt.Errorf("no git remote configured")
	}
	return remotes[0], nil
}

// RemoteURL returns the first fetch URL configured for the remote
func (c *Client) RemoteURL(name string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(c.gitRoot, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	remote, err := repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("failed to find remote %s: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", name)
	}
	return urls[0], nil
}

// gitPath resolves a path inside the git directory, honouring worktrees
func (c *Client) gitPath(ctx context.Context, name string) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--git-path", name)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(c.gitRoot, out)
	}
	return out, nil
}

// GitDir returns the path of a directory stack-pr may use for its own files
// inside the git directory
func (c *Client) GitDir(ctx context.Context, name string) (string, error) {
	return c.gitPath(ctx, name)
}
