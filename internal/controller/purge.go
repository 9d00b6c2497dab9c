package controller

import (
	"context"
	"os"
	"path/filepath"

	"github.com/holland-backup/holland/internal/catalog"
	"github.com/holland-backup/holland/internal/spool"
)

// PurgeOptions bundles the parameters that shape a purge run into a
// single named struct, rather than a long positional argument list.
type PurgeOptions struct {
	RetentionCount int
	DryRun         bool
}

// PurgeSet enforces retention on a backupset's nodes, walking from
// newest to oldest and keeping a node when it's in exclude, or when it
// is completed and the kept count hasn't yet reached RetentionCount.
func (c *Controller) PurgeSet(ctx context.Context, name string, opts PurgeOptions, exclude []string) error {
	nodes, err := c.Spool.IterNodes(name)
	if err != nil {
		return err
	}

	excluded := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		excluded[p] = true
	}

	kept := make([]*spool.Node, 0, len(nodes))
	var purge []*spool.Node
	completedKept := 0

	for i := len(nodes) - 1; i >= 0; i-- {
		node := nodes[i]
		if excluded[node.Path] {
			kept = append(kept, node)
			continue
		}
		backup, err := c.Catalog.LoadBackupFromNode(ctx, node.Path)
		status := ""
		if err == nil && backup != nil {
			status = backup.Status
		}
		if status == catalog.StatusCompleted && completedKept < opts.RetentionCount {
			completedKept++
			kept = append(kept, node)
			continue
		}
		purge = append(purge, node)
	}

	// kept was built newest-to-oldest; reverse for symlink targets.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}

	namespaceDir := filepath.Join(c.Spool.Path, name)
	oldestLink := filepath.Join(namespaceDir, "oldest")
	newestLink := filepath.Join(namespaceDir, "newest")

	if opts.DryRun {
		for _, node := range purge {
			c.Logger.Info("purge (dry-run): would remove", "path", node.Path)
		}
		return nil
	}

	if len(kept) > 0 {
		if err := spool.ReplaceSymlink(kept[0].Path, oldestLink); err != nil {
			c.Logger.Warn("purge: replacing oldest symlink", "error", err)
		}
		if err := spool.ReplaceSymlink(kept[len(kept)-1].Path, newestLink); err != nil {
			c.Logger.Warn("purge: replacing newest symlink", "error", err)
		}
	} else {
		os.Remove(oldestLink)
		os.Remove(newestLink)
	}

	for _, node := range purge {
		if err := c.Release(ctx, node.Path); err != nil {
			c.Logger.Warn("purge: release failed, continuing", "path", node.Path, "error", err)
		}
		if err := node.Purge(); err != nil {
			c.Logger.Error("purge: removing node failed", "path", node.Path, "error", err)
		}
	}
	return nil
}
