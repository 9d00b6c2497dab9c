package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) listCommandsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list-commands",
		Aliases: []string{"lc"},
		Short:   "List available holland subcommands",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, sub := range cmd.Root().Commands() {
				if !sub.IsAvailableCommand() {
					continue
				}
				name := sub.Name()
				if len(sub.Aliases) > 0 {
					name = fmt.Sprintf("%s (%s)", name, sub.Aliases[0])
				}
				fmt.Fprintf(out, "%-20s %s\n", name, sub.Short)
			}
			return nil
		},
	}

	return cmd
}
