package open

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bjulian5/stackpr/internal/common"
	stackerrors "github.com/bjulian5/stackpr/internal/errors"
	"github.com/bjulian5/stackpr/internal/ui"
)

// Command opens a pull request of the stack in the browser
type Command struct {
	// Arguments
	Position int

	Flags   *common.Flags
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "open [position]",
		Short: "Open a pull request of the stack in the browser",
		Long: `Open a pull request of the stack in the browser.

Position 1 is the commit directly on top of the trunk, as shown by
'stack-pr list'. Without a position an interactive fuzzy finder selects one;
when not running in a terminal the newest pull request is opened.

Examples:
  stack-pr open      # Interactive fuzzy finder
  stack-pr open 2    # Open the PR of the second commit`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				position, err := ParsePosition(args[0])
				if err != nil {
					return err
				}
				c.Position = position
			}
			var err error
			c.Clients, err = common.InitClients(cobraCmd.Context(), *c.Flags, nil)
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			defer c.Clients.Close()
			return c.Run(cobraCmd.Context())
		},
	}

	parent.AddCommand(command)
}

// ParsePosition validates a 1-based stack position argument
func ParsePosition(arg string) (int, error) {
	position, err := strconv.Atoi(arg)
	if err != nil || position < 1 {
		return 0, stackerrors.NewUserError("invalid position %q: expected a number starting at 1", arg)
	}
	return position, nil
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	entries, err := c.Clients.Engine.Entries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return stackerrors.NewUserError("the stack is empty")
	}

	entry, err := c.choose(entries)
	if err != nil || entry == nil {
		return err
	}

	if err := c.Clients.Engine.OpenPR(ctx, *entry); err != nil {
		return fmt.Errorf("failed to open PR in browser: %w", err)
	}
	ui.Successf("Opening %s: %s", ui.PRLabel(*entry), entry.Title)
	return nil
}

func (c *Command) choose(entries []ui.StackEntry) (*ui.StackEntry, error) {
	if c.Position > 0 {
		return SelectPosition(entries, c.Position)
	}

	withPR := slices.DeleteFunc(slices.Clone(entries), func(e ui.StackEntry) bool { return e.URL == "" })
	if len(withPR) == 0 {
		return nil, stackerrors.NewUserError("no commit of the stack has a pull request; run 'stack-pr sync' first")
	}

	if !ui.IsInteractive() {
		return &withPR[len(withPR)-1], nil
	}

	// Newest first, as in list
	slices.Reverse(withPR)
	return ui.SelectPR(withPR)
}

// SelectPosition returns the entry at a 1-based position
func SelectPosition(entries []ui.StackEntry, position int) (*ui.StackEntry, error) {
	if position > len(entries) {
		return nil, stackerrors.NewUserError("position %d is out of range: the stack has %d commits", position, len(entries))
	}
	return &entries[position-1], nil
}
