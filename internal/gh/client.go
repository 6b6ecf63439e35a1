package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	stackerrors "github.com/bjulian5/stackpr/internal/errors"
	"github.com/bjulian5/stackpr/internal/model"
)

// CLIClient provides GitHub operations via gh CLI
type CLIClient struct {
	dir    string
	logger *slog.Logger
}

// NewCLIClient creates a GitHub client that runs gh in dir
func NewCLIClient(dir string, logger *slog.Logger) *CLIClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CLIClient{dir: dir, logger: logger}
}

// CurrentLogin returns the login of the authenticated user
func (c *CLIClient) CurrentLogin(ctx context.Context) (string, error) {
	out, err := c.execGH(ctx, "", "api", "user", "--jq", ".login")
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub login: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// DefaultBranch returns the default branch of the repository
func (c *CLIClient) DefaultBranch(ctx context.Context) (string, error) {
	out, err := c.execGH(ctx, "", "repo", "view", "--json", "defaultBranchRef", "--jq", ".defaultBranchRef.name")
	if err != nil {
		return "", fmt.Errorf("failed to get default branch: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ViewPR fetches a pull request by URL
func (c *CLIClient) ViewPR(ctx context.Context, url string) (*model.PullRequest, error) {
	out, err := c.execGH(ctx, "", "pr", "view", url, "--json", prViewFields)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PR %s: %w", url, err)
	}

	var pr model.PullRequest
	if err := json.Unmarshal([]byte(out), &pr); err != nil {
		return nil, fmt.Errorf("failed to parse PR JSON: %w", err)
	}
	return &pr, nil
}

// CreatePR creates a pull request and returns its URL. If the head branch
// already has a pull request the error is an *AlreadyExistsError.
func (c *CLIClient) CreatePR(ctx context.Context, base, head, title, body string) (string, error) {
	out, err := c.execGH(ctx, body,
		"pr", "create",
		"--base", base,
		"--head", head,
		"--title", title,
		"--body-file", "-",
	)
	if err != nil {
		var cmdErr *stackerrors.CommandError
		if errors.As(err, &cmdErr) {
			if url := ExistingPRURL(cmdErr.Stderr + "\n" + cmdErr.Stdout); url != "" {
				return "", &AlreadyExistsError{URL: url, Err: err}
			}
		}
		return "", fmt.Errorf("failed to create PR: %w", err)
	}

	// gh prints the URL as the last line of stdout
	lines := strings.Split(strings.TrimSpace(out), "\n")
	url := strings.TrimSpace(lines[len(lines)-1])
	if _, ok := PRNumberFromURL(url); !ok {
		return "", fmt.Errorf("unexpected output from gh pr create: %q", out)
	}
	return url, nil
}

// EditPR sets the base branch and body of a pull request
func (c *CLIClient) EditPR(ctx context.Context, url, base, body string) error {
	if _, err := c.execGH(ctx, body, "pr", "edit", url, "--base", base, "--body-file", "-"); err != nil {
		return fmt.Errorf("failed to update PR: %w", err)
	}
	return nil
}

// ReopenPR reopens a closed pull request, leaving comment when non-empty
func (c *CLIClient) ReopenPR(ctx context.Context, url, comment string) error {
	args := []string{"pr", "reopen", url}
	if comment != "" {
		args = append(args, "--comment", comment)
	}
	if _, err := c.execGH(ctx, "", args...); err != nil {
		return fmt.Errorf("failed to reopen PR: %w", err)
	}
	return nil
}

// OpenInBrowser opens a pull request in the browser using gh CLI
func (c *CLIClient) OpenInBrowser(ctx context.Context, url string) error {
	_, err := c.execGH(ctx, "", "pr", "view", url, "--web")
	return err
}

// execGH executes a gh CLI command and returns stdout. stdin is fed to the
// command when non-empty.
func (c *CLIClient) execGH(ctx context.Context, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Dir = c.dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("gh", "args", args)
	if err := cmd.Run(); err != nil {
		exitCode := 0
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", stackerrors.NewCommandError("gh", args, exitCode, stdout.String(), stderr.String(), err)
	}
	return stdout.String(), nil
}
