package controller

import (
	"context"
	"time"

	"github.com/holland-backup/holland/internal/catalog"
	"github.com/holland-backup/holland/internal/config"
	"github.com/holland-backup/holland/internal/hooks"
	"github.com/holland-backup/holland/internal/strategy"
)

// Backup runs a single backupset's lifecycle end-to-end: setup,
// estimate, hooks, the strategy's own backup or dry-run, then cleanup.
// config is the backupset's own configuration, already read from its
// config file but not yet validated; name identifies both the
// backupset and its spool namespace.
func (c *Controller) Backup(ctx context.Context, cfg *config.Tree, name string, dryRun bool) (*catalog.Backup, error) {
	if c.job == nil {
		return nil, errorf("controller: Backup called outside a job scope")
	}

	backupSection := cfg.Sub("holland:backup")

	if err := validateBaseConfigspec(cfg, c.Logger); err != nil {
		return nil, err
	}

	pluginName, _ := backupSection.Get("backup-plugin").(string)
	st, err := c.resolveStrategy(pluginName)
	if err != nil {
		return nil, err
	}
	if specText := st.Configspec(); specText != "" {
		spec, err := c.compiledConfigspec(pluginName, specText)
		if err != nil {
			return nil, errorf("controller: parsing strategy configspec: %v", err)
		}
		if _, err := spec.Validate(cfg, config.ValidateOptions{IgnoreUnknownSections: true, Logger: c.Logger}); err != nil {
			return nil, err
		}
	}

	handle, err := c.Spool.Lock(name)
	if err != nil {
		return nil, err
	}
	defer handle.Release()

	node, err := c.Spool.AddNode(name, "")
	if err != nil {
		return nil, err
	}

	backup := &catalog.Backup{
		JobID:           c.job.ID,
		Name:            name,
		BackupDirectory: node.Path,
		ConfigPath:      cfg.Path,
		Config:          cfg.String(),
		StartTime:       time.Now(),
		Status:          catalog.StatusRunning,
	}
	if err := c.Catalog.SaveBackup(ctx, backup); err != nil {
		return nil, err
	}

	hc := hooks.Context{
		Ctx:      ctx,
		Backup:   backup,
		Config:   cfg,
		Node:     node,
		Strategy: st,
		DryRun:   dryRun,
		Logger:   c.Logger,
		Purge: func(exclude ...string) error {
			return c.PurgeSet(ctx, name, PurgeOptions{RetentionCount: retentionCount(backupSection), DryRun: dryRun}, append(exclude, node.Path))
		},
		Capacity: c.Spool.Capacity,
	}
	c.Hooks.Bind(hc)
	defer c.Hooks.Clear()

	c.Hooks.Event(hooks.EventInitialize)

	if setupper, ok := st.(strategy.Setupper); ok {
		if err := setupper.Setup(ctx); err != nil {
			return c.failBackup(ctx, backup, &BackupError{Reason: "setup failed", Err: err})
		}
	}

	c.Hooks.Event(hooks.EventBeforeBackup)

	var runErr error
	if dryRun {
		if dr, ok := st.(strategy.DryRunner); ok {
			runErr = dr.DryRun(ctx)
		}
	} else {
		if bk, ok := st.(strategy.Backuper); ok {
			runErr = bk.Backup(ctx)
		} else {
			runErr = errorf("controller: strategy %q cannot run a backup", pluginName)
		}
	}

	stop := time.Now()
	backup.StopTime = &stop

	if cl, ok := st.(strategy.Cleaner); ok {
		defer func() {
			if err := cl.Cleanup(ctx); err != nil {
				c.Logger.Warn("strategy cleanup failed", "backupset", name, "error", err)
			}
		}()
	}

	if runErr != nil {
		return c.failBackup(ctx, backup, runErr)
	}

	backup.Status = catalog.StatusCompleted
	if err := c.Catalog.SaveBackup(ctx, backup); err != nil {
		return nil, err
	}
	c.Hooks.Event(hooks.EventCompletedBackup)
	// Hooks like estimation's updateBackupSize mutate backup (RealSize)
	// in response to EventCompletedBackup; persist that before
	// after-backup hooks run.
	if err := c.Catalog.SaveBackup(ctx, backup); err != nil {
		c.Logger.Error("controller: saving backup after completed-backup hooks", "error", err)
	}
	c.Hooks.Event(hooks.EventAfterBackup)

	return backup, nil
}

func (c *Controller) failBackup(ctx context.Context, backup *catalog.Backup, cause error) (*catalog.Backup, error) {
	backup.Status = catalog.StatusFailed
	backup.Message = cause.Error()
	if backup.StopTime == nil {
		stop := time.Now()
		backup.StopTime = &stop
	}
	if err := c.Catalog.SaveBackup(ctx, backup); err != nil {
		c.Logger.Error("controller: saving failed backup", "error", err)
	}
	c.Hooks.Event(hooks.EventFailedBackup)
	if err := c.Catalog.SaveBackup(ctx, backup); err != nil {
		c.Logger.Error("controller: saving backup after failed-backup hooks", "error", err)
	}
	c.Hooks.Event(hooks.EventAfterBackup)
	return backup, cause
}

func retentionCount(backupSection *config.Tree) int {
	if n, ok := backupSection.Get("retention-count").(int); ok {
		return n
	}
	return 1
}
