package hook

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bjulian5/stackpr/internal/cache"
	"github.com/bjulian5/stackpr/internal/common"
)

// Command is the parent command for all hook subcommands
type Command struct {
	Flags   *common.Flags
	Clients *common.Clients
}

// Register registers the hook command and all subcommands
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:    "hook",
		Short:  "Commands run by git (internal use)",
		Long:   `Hook commands are called by git during a sync and should not be run directly by users.`,
		Hidden: true,
	}

	rebaseExec := &cobra.Command{
		Use:   "rebase-exec",
		Short: "Publish HEAD during the sync rebase",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			c.Clients, err = common.InitClients(cmd.Context(), *c.Flags, cache.FromEnviron(os.Environ(), nil))
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.Clients.Close()
			_, err := c.Clients.Engine.RebaseStep(cmd.Context())
			return err
		},
	}
	cmd.AddCommand(rebaseExec)

	parent.AddCommand(cmd)
}
