// Package hooks implements the backup lifecycle observer pipeline.
package hooks

import (
	"context"
	"log/slog"
	"sort"

	"github.com/holland-backup/holland/internal/catalog"
	"github.com/holland-backup/holland/internal/config"
	"github.com/holland-backup/holland/internal/plugin"
	"github.com/holland-backup/holland/internal/spool"
	"github.com/holland-backup/holland/internal/strategy"
)

const Namespace = "holland.backup.hooks"

// Event names dispatched by the Executor.
const (
	EventInitialize      = "initialize"
	EventBeforeBackup    = "before-backup"
	EventCompletedBackup = "completed-backup"
	EventFailedBackup    = "failed-backup"
	EventAfterBackup     = "after-backup"
)

// Context is everything a hook needs bound before it can run: the
// backup it's observing, the resolved config and node, and callbacks
// into the controller for the handful of hooks that need to call back
// into it (rotate-backups' purge, estimation's free-space probe).
type Context struct {
	Ctx      context.Context
	Backup   *catalog.Backup
	Config   *config.Tree
	Node     *spool.Node
	Strategy strategy.Strategy
	DryRun   bool
	Logger   *slog.Logger

	// Purge triggers Controller.PurgeSet for this backup's
	// namespace, used by the rotate-backups hook.
	Purge func(exclude ...string) error

	// Capacity reports free bytes on the node's spool, used by the
	// estimation hook's free-space check.
	Capacity func() (uint64, error)
}

// Hook is one observer in the pipeline. Priority controls dispatch
// order (ascending; ties break by registration order). Bind is called
// once per backup before any event fires. Handle is called once per event
// this hook is interested in; hooks that don't implement a given event
// simply do nothing.
type Hook interface {
	Name() string
	Priority() int
	Bind(hc Context)
	Handle(event string) error
}

var registry = plugin.NewRegistry()

func Register(name string, priority int, ctor func(name string) Hook) {
	registry.Register(Namespace, name, nil, func(n string) interface{} { return ctor(n) })
}

// Names returns the name of every registered hook, in registration
// order, for diagnostics commands like "list-commands".
func Names() []string {
	return registry.Names(Namespace)
}

// Executor loads every registered hook once (sorted by priority, then
// registration order), binds them to a backup context, and dispatches
// named events across the pipeline, logging but not aborting on a
// single hook's failure.
type Executor struct {
	Logger *slog.Logger
	hooks  []Hook
}

func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{Logger: logger}
}

// Bind loads every registered hook and binds them to hc, readying the
// executor for Event calls. It must be called once per backup.
func (e *Executor) Bind(hc Context) {
	var hooks []Hook
	for _, v := range registry.Iterate(Namespace) {
		hooks = append(hooks, v.(Hook))
	}
	sort.SliceStable(hooks, func(i, j int) bool {
		return hooks[i].Priority() < hooks[j].Priority()
	})
	for _, h := range hooks {
		h.Bind(hc)
	}
	e.hooks = hooks
}

// Event dispatches name to every bound hook in order, logging (but not
// propagating) any individual hook's error.
func (e *Executor) Event(name string) {
	for _, h := range e.hooks {
		if err := h.Handle(name); err != nil {
			e.Logger.Error("hook failed", "hook", h.Name(), "event", name, "error", err)
		}
	}
}

// Clear drops the bound hooks, releasing the executor for reuse on the
// next backup.
func (e *Executor) Clear() {
	e.hooks = nil
}
