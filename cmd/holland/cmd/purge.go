package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holland-backup/holland/internal/controller"
)

func (c *CLI) purgeCommand() *cobra.Command {
	var directory string
	var retentionCount int
	var purgeAll bool
	var force bool
	var dryRunFlag bool

	cmd := &cobra.Command{
		Use:   "purge [backupset...]",
		Short: "Purge old backups according to each backupset's retention policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			backupsets := args
			if len(backupsets) == 0 {
				backupsets = c.Config.Backupsets
			}
			if len(backupsets) == 0 {
				return fmt.Errorf("holland: nothing to purge")
			}

			if err := c.rewire(directory, ""); err != nil {
				return err
			}
			if c.Controller == nil {
				return fmt.Errorf("holland: no backup-directory/catalog-db configured")
			}

			dryRun := !force || dryRunFlag
			if dryRun {
				c.Logger.Warn("purge: running in dry-run mode, use --force to purge for real")
			}

			count := retentionCount
			if purgeAll {
				count = 0
			}

			ctx := cmd.Context()
			failures := 0
			for _, name := range backupsets {
				opts := controller.PurgeOptions{RetentionCount: count, DryRun: dryRun}
				if err := c.Controller.PurgeSet(ctx, name, opts, nil); err != nil {
					c.Logger.Error("purge: failed", "backupset", name, "error", err)
					failures++
				}
			}
			if failures > 0 {
				return fmt.Errorf("holland: purge failed for %d backupset(s)", failures)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "backup-directory", "d", "", "override the configured backup-directory")
	cmd.Flags().IntVar(&retentionCount, "retention-count", 1, "number of completed backups to retain per backupset")
	cmd.Flags().BoolVar(&purgeAll, "all", false, "purge every backup (equivalent to --retention-count=0)")
	cmd.Flags().BoolVar(&force, "force", false, "actually purge instead of the default dry-run")
	cmd.Flags().BoolVar(&force, "execute", false, "alias for --force")
	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "explicitly request dry-run (the default when neither --force nor --execute is given)")

	return cmd
}
