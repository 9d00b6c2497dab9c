package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holland-backup/holland/internal/controller"
	"github.com/holland-backup/holland/internal/plugin"
)

func (c *CLI) releaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release <path...>",
		Short: "Release resources held by a previously run backup",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := c.Controller
			if ctrl == nil {
				ctrl = controller.New(c.Spool, c.Catalog, plugin.RegistryLoader{Registry: c.Strategies}, c.Logger)
			}

			ctx := cmd.Context()
			failures := 0
			for _, path := range args {
				if err := ctrl.Release(ctx, path); err != nil {
					c.Logger.Error("release: failed", "path", path, "error", err)
					failures++
				}
			}
			if failures > 0 {
				return fmt.Errorf("holland: release failed for %d path(s)", failures)
			}
			return nil
		},
	}

	return cmd
}
