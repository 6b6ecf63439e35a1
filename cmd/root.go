package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/bjulian5/stackpr/cmd/hook"
	"github.com/bjulian5/stackpr/cmd/list"
	"github.com/bjulian5/stackpr/cmd/open"
	synccmd "github.com/bjulian5/stackpr/cmd/sync"
	"github.com/bjulian5/stackpr/internal/common"
	stackerrors "github.com/bjulian5/stackpr/internal/errors"
	"github.com/bjulian5/stackpr/internal/ui"
)

var flags common.Flags

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stack-pr",
	Short: "One pull request per commit, stacked",
	Long: `stack-pr turns the commits between the remote trunk and HEAD into a stack of
GitHub pull requests, one per commit, each targeting the branch of the commit
below it.

The commit message is the source of truth: a "Pull Request:" trailer links a
commit to its PR, and sync keeps branches, bases and stack manifests in line
with local history.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It returns the process exit code.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return stackerrors.ExitOK
	}

	if ctx.Err() != nil {
		ui.Error("Interrupted")
	} else {
		ui.Error(err.Error())
	}
	return stackerrors.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Write a debug log to .git/stack-pr/debug.log")
	rootCmd.PersistentFlags().StringVar(&flags.Remote, "remote", "", "Remote to push branches to (default: first configured remote)")
	rootCmd.PersistentFlags().StringVar(&flags.Trunk, "trunk", "", "Branch the stack is based on (default: the repository's default branch)")
	rootCmd.PersistentFlags().StringVar(&flags.Backend, "backend", "", `Hosting backend: "gh" (GitHub CLI) or "api" (REST API)`)

	commands := []Command{
		&synccmd.Command{Flags: &flags},
		&list.Command{Flags: &flags},
		&open.Command{Flags: &flags},
		&hook.Command{Flags: &flags},
	}

	for _, cmd := range commands {
		cmd.Register(rootCmd)
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
}
