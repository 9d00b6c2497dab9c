package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) listBackupsCommand() *cobra.Command {
	var directory string

	cmd := &cobra.Command{
		Use:     "list-backups",
		Aliases: []string{"lb"},
		Short:   "List spooled backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.rewire(directory, ""); err != nil {
				return err
			}
			if c.Spool == nil {
				return fmt.Errorf("holland: no backup-directory specified")
			}

			namespaces, err := c.Spool.IterNamespaces()
			if err != nil {
				return fmt.Errorf("holland: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-15s %10s %s\n", "Created", "Backupset", "Size", "Path")
			for _, ns := range namespaces {
				nodes, err := c.Spool.IterNodes(ns)
				if err != nil {
					c.Logger.Error("list-backups: iterating namespace failed", "backupset", ns, "error", err)
					continue
				}
				for _, node := range nodes {
					size, _ := node.Size()
					fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-15s %10s %s\n",
						node.Timestamp().Format("2006-01-02 15:04:05"), ns, formatBytes(size), node.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "backup-directory", "d", "", "override the configured backup-directory")
	return cmd
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
