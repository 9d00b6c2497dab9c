package controller

import (
	"context"
	"path/filepath"

	"github.com/holland-backup/holland/internal/config"
	"github.com/holland-backup/holland/internal/strategy"
)

// Release loads a node's saved config, resolves its strategy, and calls
// Release on it to free any externally reserved resource (e.g. a
// still-mounted LVM snapshot).
func (c *Controller) Release(ctx context.Context, nodePath string) error {
	cfgPath := filepath.Join(nodePath, ".holland", "config")
	cfg, err := config.ParseFile(cfgPath)
	if err != nil {
		// No saved config: nothing to release.
		return nil
	}

	backupSection := cfg.Sub("holland:backup")
	pluginName, _ := backupSection.Get("backup-plugin").(string)
	if pluginName == "" {
		pluginName = backupSection.GetString("backup-plugin")
	}
	if pluginName == "" {
		return nil
	}

	st, err := c.resolveStrategy(pluginName)
	if err != nil {
		return err
	}
	releaser, ok := st.(strategy.Releaser)
	if !ok {
		return nil
	}

	return releaser.Release(ctx)
}
