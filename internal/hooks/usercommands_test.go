package hooks

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holland-backup/holland/internal/config"
)

func TestUserCommandsRunsConfiguredCommand(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	var buf bytes.Buffer

	h := NewUserCommandsHook(map[string]string{
		EventBeforeBackup: "touch " + marker,
	})
	h.Bind(Context{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	require.NoError(t, h.Handle(EventBeforeBackup))
	assert.FileExists(t, marker)
	assert.Contains(t, buf.String(), "touch "+marker)

	buf.Reset()
	require.NoError(t, h.Handle(EventCompletedBackup))
	assert.Empty(t, buf.String())
}

func TestUserCommandsBeforeBackupFailureIsFatal(t *testing.T) {
	var buf bytes.Buffer
	h := NewUserCommandsHook(map[string]string{
		EventBeforeBackup: "exit 1",
	})
	h.Bind(Context{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	err := h.Handle(EventBeforeBackup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before-backup command failed")
}

func TestUserCommandsOtherEventFailureIsNonFatal(t *testing.T) {
	var buf bytes.Buffer
	h := NewUserCommandsHook(map[string]string{
		EventCompletedBackup: "exit 1",
	})
	h.Bind(Context{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	err := h.Handle(EventCompletedBackup)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "user command failed")
}

func TestUserCommandsBindReadsPerBackupsetConfig(t *testing.T) {
	cfg, err := config.ParseString(`
[holland:backup]
before-backup-command = echo before
after-backup-command = echo after
completed-backup-command = echo completed
failed-backup-command = echo failed
`)
	require.NoError(t, err)

	h := NewUserCommandsHook(map[string]string{EventBeforeBackup: "stale"})
	h.Bind(Context{Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	assert.Equal(t, "echo before", h.Commands[EventBeforeBackup])
	assert.Equal(t, "echo after", h.Commands[EventAfterBackup])
	assert.Equal(t, "echo completed", h.Commands[EventCompletedBackup])
	assert.Equal(t, "echo failed", h.Commands[EventFailedBackup])
}
