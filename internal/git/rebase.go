package git

import (
	"context"
	"fmt"
	"os"
)

// RebaseExec runs an interactive rebase of everything above upstream, running
// command after each picked commit. The sequence editor is forced to `true`
// so git accepts the generated todo list without opening an editor. Output is
// streamed to the terminal because the exec steps report progress.
//
// env is appended to the inherited environment of git and therefore of every
// exec step.
func (c *Client) RebaseExec(ctx context.Context, upstream string, command string, env []string) error {
	env = append(env,
		"GIT_SEQUENCE_EDITOR=true",
		"GIT_EDITOR=true",
	)

	_, err := c.runWith(ctx, runOptions{env: env, stream: os.Stdout},
		"rebase", "--interactive", "--exec", command, upstream)
	if err != nil {
		return fmt.Errorf("rebase onto %s failed: %w", ShortHash(upstream), err)
	}
	return nil
}

// RebaseAbort aborts an in-progress rebase and restores the original branch
func (c *Client) RebaseAbort(ctx context.Context) error {
	if _, err := c.run(ctx, "rebase", "--abort"); err != nil {
		return fmt.Errorf("failed to abort rebase: %w", err)
	}
	return nil
}

// IsRebaseInProgress checks if a rebase is currently in progress
func (c *Client) IsRebaseInProgress(ctx context.Context) bool {
	for _, name := range []string{"rebase-merge", "rebase-apply"} {
		path, err := c.gitPath(ctx, name)
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

// ShortHash abbreviates a commit hash for display
func ShortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
