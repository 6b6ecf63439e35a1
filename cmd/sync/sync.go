package sync

import (
	"context"
	"fmt"
	"os"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/bjulian5/stackpr/internal/common"
	"github.com/bjulian5/stackpr/internal/stack"
)

// Command publishes the stack and reconciles its pull requests
type Command struct {
	// Flags
	ForceBootstrap bool

	Flags   *common.Flags
	Clients *common.Clients
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push every commit and create or update its pull request",
		Long: `Sync the stack between the remote trunk and HEAD with GitHub.

Commits without a "Pull Request:" trailer get a branch and a PR through an
interactive rebase that records the new URL in each commit message. Every
commit is then force-pushed to its branch, and every PR is pointed at the
branch below it with a manifest of the whole stack in its description.

Closed PRs of commits still in the stack are reopened. A PR that was merged
into another stack branch is replaced by a new one.

Example:
  stack-pr sync                  # Sync against the default remote and branch
  stack-pr sync --trunk develop  # Stack on top of origin/develop`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			c.Clients, err = common.InitClients(cmd.Context(), *c.Flags, nil)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.Clients.Close()
			return c.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&c.ForceBootstrap, "force-bootstrap", false, "Rewrite every commit of the stack")
	_ = cmd.Flags().MarkHidden("force-bootstrap")

	parent.AddCommand(cmd)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	execCommand, err := rebaseExecCommand()
	if err != nil {
		return err
	}

	_, err = c.Clients.Engine.Sync(ctx, stack.SyncOptions{
		ForceBootstrap: c.ForceBootstrap,
		ExecCommand:    execCommand,
		Env:            c.Clients.Environ(),
	})
	return err
}

// rebaseExecCommand is the shell line git runs after each commit of the
// bootstrap rebase
func rebaseExecCommand() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate stack-pr executable: %w", err)
	}
	return shellquote.Join(self, "hook", "rebase-exec"), nil
}
