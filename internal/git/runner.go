package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	stackerrors "github.com/bjulian5/stackpr/internal/errors"
)

// runOptions controls how a git command is executed
type runOptions struct {
	stdin   string
	env     []string
	combine bool      // merge stderr into the returned output
	stream  io.Writer // additionally copy stdout/stderr here
}

// run executes a git command in the repository and returns trimmed stdout
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	out, err := c.runWith(ctx, runOptions{}, args...)
	return strings.TrimSpace(out), err
}

// runRaw executes a git command and returns stdout untouched
func (c *Client) runRaw(ctx context.Context, args ...string) (string, error) {
	return c.runWith(ctx, runOptions{}, args...)
}

func (c *Client) runWith(ctx context.Context, opts runOptions, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.gitRoot
	if len(opts.env) > 0 {
		cmd.Env = append(os.Environ(), opts.env...)
	}
	if opts.stdin != "" {
		cmd.Stdin = strings.NewReader(opts.stdin)
	}

	var stdout, stderr bytes.Buffer
	switch {
	case opts.stream != nil:
		cmd.Stdin = os.Stdin
		cmd.Stdout = io.MultiWriter(opts.stream, &stdout)
		cmd.Stderr = io.MultiWriter(os.Stderr, &stderr)
	case opts.combine:
		cmd.Stdout = &stdout
		cmd.Stderr = &stdout
	default:
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	c.logger.Debug("git", "args", args)
	err := cmd.Run()
	if err != nil {
		exitCode := 0
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		stderrText := stderr.String()
		if opts.combine {
			stderrText = stdout.String()
		}
		return stdout.String(), stackerrors.NewCommandError("git", args, exitCode, stdout.String(), stderrText, err)
	}
	return stdout.String(), nil
}
