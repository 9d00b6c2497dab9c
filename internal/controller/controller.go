// Package controller implements the backup job-and-backup lifecycle
// that sequences a single backupset run end-to-end: lock the spool,
// mint a node, bind a strategy, walk the hook pipeline, and commit a
// catalog row.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/holland-backup/holland/internal/catalog"
	"github.com/holland-backup/holland/internal/config"
	"github.com/holland-backup/holland/internal/hooks"
	"github.com/holland-backup/holland/internal/plugin"
	"github.com/holland-backup/holland/internal/spool"
	"github.com/holland-backup/holland/internal/strategy"
)

// Error wraps a controller-level failure not already carrying a more
// specific type (SpoolLockError, BackupError, etc).
type Error struct{ msg string }

func (e *Error) Error() string { return e.msg }

func errorf(format string, args ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// BackupError marks a failure raised by the strategy itself during
// setup/backup/dryrun, distinguished from infrastructure failures
// (lock, catalog, spool) so the controller can attribute "failed"
// status correctly.
type BackupError struct {
	Reason string
	Err    error
}

func (e *BackupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *BackupError) Unwrap() error { return e.Err }

// BaseConfigspecText is the `[holland:backup]` section every backupset
// config is validated against, matching §6's key list. Backup validates
// against it first and then, in a separate pass, against the strategy's
// own configspec; the two configspecs are not melded into one.
const BaseConfigspecText = `
[holland:backup]
backup-plugin = string()
estimation-method = namearg(default="plugin:")
estimated-size-adjust-by-percent = percent(default=100%)
checksum-algorithm = option('md5', 'sha1', 'sha256', 'none', default='sha256')
retention-count = integer(min=0, default=1)
purge-policy = option('before-backup', 'after-backup', default='after-backup')
before-backup-command = string(default='')
after-backup-command = string(default='')
completed-backup-command = string(default='')
failed-backup-command = string(default='')
`

// Controller drives a backupset through its full lifecycle: setup,
// estimate, hooks, backup or dry-run, cleanup, and purge. One
// Controller corresponds to one process; a single job may be open at a
// time.
type Controller struct {
	Spool      *spool.Spool
	Catalog    catalog.Catalog
	Strategies plugin.Loader
	Hooks      *hooks.Executor
	Logger     *slog.Logger

	job         *catalog.Job
	configspecs *lru.Cache[string, *config.Configspec]
}

// New constructs a Controller. strategies resolves backup-plugin names
// from the holland.backup namespace; pass a *plugin.RegistryLoader
// wrapping the process-wide registry in production, or an isolated one
// in tests.
func New(sp *spool.Spool, cat catalog.Catalog, strategies plugin.Loader, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	specCache, _ := lru.New[string, *config.Configspec](32)
	return &Controller{
		Spool:       sp,
		Catalog:     cat,
		Strategies:  strategies,
		Hooks:       hooks.NewExecutor(logger),
		Logger:      logger,
		configspecs: specCache,
	}
}

// compiledConfigspec parses and caches a strategy's configspec text,
// keyed by plugin name, so repeated backups of the same backupset don't
// re-parse identical configspec text on every run.
func (c *Controller) compiledConfigspec(pluginName, specText string) (*config.Configspec, error) {
	if c.configspecs != nil {
		if cached, ok := c.configspecs.Get(pluginName); ok {
			return cached, nil
		}
	}
	spec, err := config.NewConfigspec(specText)
	if err != nil {
		return nil, err
	}
	if c.configspecs != nil {
		c.configspecs.Add(pluginName, spec)
	}
	return spec, nil
}

// JobScope is the handle returned by Job; Close must be called exactly
// once, typically via defer, to stamp stop_time and persist it.
type JobScope struct {
	ctrl *Controller
	ctx  context.Context
	Job  *catalog.Job
}

// Job opens a new job scope: a Job row is created and committed
// immediately so it is visible even if the process is killed mid-run.
// A Controller only ever tracks the most recently opened job.
func (c *Controller) Job(ctx context.Context, isDryrun bool, externalID string) (*JobScope, error) {
	if externalID == "" {
		externalID = uuid.NewString()
	}
	job := &catalog.Job{
		ExternalID:  externalID,
		PID:         os.Getpid(),
		CommandLine: strings.Join(os.Args, " "),
		StartTime:   time.Now(),
		Status:      catalog.StatusRunning,
		IsDryrun:    isDryrun,
	}
	if err := c.Catalog.SaveJob(ctx, job); err != nil {
		return nil, errorf("controller: opening job: %v", err)
	}
	c.job = job
	c.Logger.Info("job started", "external_id", job.ExternalID, "pid", job.PID, "dryrun", isDryrun)
	return &JobScope{ctrl: c, ctx: ctx, Job: job}, nil
}

// Close stamps the job's stop_time, marks it completed, and persists
// it. Safe to call via defer immediately after Job succeeds.
func (js *JobScope) Close() error {
	now := time.Now()
	js.Job.StopTime = &now
	js.Job.Status = catalog.StatusCompleted
	if err := js.ctrl.Catalog.SaveJob(js.ctx, js.Job); err != nil {
		return errorf("controller: closing job: %v", err)
	}
	js.ctrl.Logger.Info("job finished", "external_id", js.Job.ExternalID)
	return nil
}

// resolveStrategy loads the strategy plugin named by the backupset
// config's backup-plugin key.
func (c *Controller) resolveStrategy(name string) (strategy.Strategy, error) {
	v, err := c.Strategies.Load(strategy.Namespace, name)
	if err != nil {
		return nil, errorf("controller: loading strategy %q: %v", name, err)
	}
	st, ok := v.(strategy.Strategy)
	if !ok {
		return nil, errorf("controller: %q does not implement Strategy", name)
	}
	return st, nil
}

func validateBaseConfigspec(cfg *config.Tree, logger *slog.Logger) error {
	spec, err := config.NewConfigspec(BaseConfigspecText)
	if err != nil {
		return errorf("controller: parsing base configspec: %v", err)
	}
	_, err = spec.Validate(cfg, config.ValidateOptions{IgnoreUnknownSections: true, Logger: logger})
	return err
}
