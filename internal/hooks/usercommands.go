package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/holland-backup/holland/internal/config"
)

// commandKey maps a lifecycle event to the `[holland:backup]` config
// key naming the shell command to run for it.
var commandKey = map[string]string{
	EventBeforeBackup:    "before-backup-command",
	EventAfterBackup:     "after-backup-command",
	EventCompletedBackup: "completed-backup-command",
	EventFailedBackup:    "failed-backup-command",
}

// usercommands runs the externally configured shell command for each
// lifecycle transition a backupset's [holland:backup] section names. A
// non-zero exit is logged for every event except before-backup, where
// it aborts the backup.
type usercommands struct {
	base
	Commands map[string]string
}

func NewUserCommandsHook(commands map[string]string) *usercommands {
	if commands == nil {
		commands = map[string]string{}
	}
	return &usercommands{
		base:     base{name: "usercommands", priority: 100},
		Commands: commands,
	}
}

// Bind captures the four command keys from the bound backup's config,
// overriding whatever Commands the constructor was given: a single
// registered instance serves every backupset.
func (h *usercommands) Bind(hc Context) {
	h.base.Bind(hc)
	if hc.Config == nil {
		return
	}
	backupSection, ok := hc.Config.Get("holland:backup").(*config.Tree)
	if !ok {
		return
	}
	commands := make(map[string]string, len(commandKey))
	for event, key := range commandKey {
		commands[event] = backupSection.GetString(key)
	}
	h.Commands = commands
}

func (h *usercommands) Handle(event string) error {
	cmdline, ok := h.Commands[event]
	if !ok || cmdline == "" {
		return nil
	}

	h.hc.Logger.Info("running user command", "event", event, "command", cmdline)

	ctx := h.hc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdline)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		h.hc.Logger.Error("user command failed", "event", event, "command", cmdline, "error", err, "stderr", stderr.String())
		if event == EventBeforeBackup {
			return fmt.Errorf("usercommands: before-backup command failed: %w", err)
		}
	}
	return nil
}

func init() {
	Register("usercommands", 100, func(string) Hook {
		return NewUserCommandsHook(nil)
	})
}
