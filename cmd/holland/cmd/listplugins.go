package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holland-backup/holland/internal/archive"
	"github.com/holland-backup/holland/internal/hooks"
	"github.com/holland-backup/holland/internal/strategy"
	"github.com/holland-backup/holland/internal/stream"
)

func (c *CLI) listPluginsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list-plugins",
		Aliases: []string{"lp"},
		Short:   "List available backup, stream, and archive plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := []struct {
				title string
				names []string
			}{
				{"backup", c.Strategies.Names(strategy.Namespace)},
				{"stream", stream.List()},
				{"archiver", archive.Names()},
				{"hooks", hooks.Names()},
			}

			out := cmd.OutOrStdout()
			for _, g := range groups {
				fmt.Fprintf(out, "%s:\n", g.title)
				if len(g.names) == 0 {
					fmt.Fprintln(out, "  (none registered)")
					continue
				}
				for _, name := range g.names {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
			return nil
		},
	}

	return cmd
}
