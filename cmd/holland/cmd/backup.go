package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/holland-backup/holland/internal/hollandconfig"
)

func (c *CLI) backupCommand() *cobra.Command {
	var directory string
	var dryRun bool
	var catalogDB string

	cmd := &cobra.Command{
		Use:   "backup [backupset...]",
		Short: "Run a backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			backupsets := args
			if len(backupsets) == 0 {
				backupsets = c.Config.Backupsets
			}
			if len(backupsets) == 0 {
				return fmt.Errorf("holland: nothing to backup")
			}

			if err := c.rewire(directory, catalogDB); err != nil {
				return err
			}
			if c.Spool == nil {
				return fmt.Errorf("holland: no backup-directory specified; set [holland].backup-directory or use --backup-directory")
			}
			if c.Controller == nil {
				return fmt.Errorf("holland: no catalog-db specified; set [holland].catalog-db or use --catalog-db")
			}

			ctx := cmd.Context()
			job, err := c.Controller.Job(ctx, dryRun, "")
			if err != nil {
				return fmt.Errorf("holland: starting job: %w", err)
			}
			defer job.Close()

			failures := 0
			for _, path := range backupsets {
				name := backupsetName(path)
				bsCfg, err := hollandconfig.LoadBackupset(path)
				if err != nil {
					c.Logger.Error("backup: loading backupset config failed", "backupset", name, "error", err)
					failures++
					continue
				}
				if _, err := c.Controller.Backup(ctx, bsCfg, name, dryRun); err != nil {
					c.Logger.Error("backup: failed", "backupset", name, "error", err)
					failures++
				}
			}
			if failures > 0 {
				return fmt.Errorf("holland: %d of %d backupsets failed", failures, len(backupsets))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "backup-directory", "d", "", "override the configured backup-directory")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "estimate without writing a backup")
	cmd.Flags().StringVar(&catalogDB, "catalog-db", "", "override the configured catalog-db URL")

	return cmd
}

// backupsetName derives a backupset's name from its config file path:
// the base filename with its extension stripped.
func backupsetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
