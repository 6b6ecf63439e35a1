package cmd

import "github.com/spf13/cobra"

// Command is a stack-pr verb that registers itself on the root command
type Command interface {
	Register(parent *cobra.Command)
}
