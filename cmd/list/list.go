package list

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bjulian5/stackpr/internal/common"
	"github.com/bjulian5/stackpr/internal/ui"
)

// Command prints the stack
type Command struct {
	Flags   *common.Flags
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "list",
		Short: "List the commits of the stack and their pull requests",
		Long: `List the commits between the remote trunk and HEAD, newest first.

Shows each commit's position, PR number, state and review decision.
Position 1 is the commit directly on top of the trunk.

Example:
  stack-pr list`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
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

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	entries, err := c.Clients.Engine.Entries(ctx)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		trunk, _ := c.Clients.Engine.TrunkRef(ctx)
		ui.Infof("No commits on top of %s", trunk)
		return nil
	}

	ui.Header("Stack " + ui.Dim("(newest first)"))
	ui.Print(ui.RenderStackTable(entries))
	return nil
}
