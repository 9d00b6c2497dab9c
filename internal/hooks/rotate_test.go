package hooks

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holland-backup/holland/internal/config"
)

func TestRotateFiresOnConfiguredPolicy(t *testing.T) {
	var purged bool
	h := NewRotateHook(PurgeAfterBackup)
	h.Bind(Context{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Purge:  func(exclude ...string) error { purged = true; return nil },
	})

	assert.NoError(t, h.Handle(EventBeforeBackup))
	assert.False(t, purged)

	assert.NoError(t, h.Handle(EventCompletedBackup))
	assert.True(t, purged)
}

func TestRotateSkipsOnDryRun(t *testing.T) {
	var purged bool
	h := NewRotateHook(PurgeAfterBackup)
	h.Bind(Context{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		DryRun: true,
		Purge:  func(exclude ...string) error { purged = true; return nil },
	})

	assert.NoError(t, h.Handle(EventCompletedBackup))
	assert.False(t, purged)
}

func TestRotateBindReadsPurgePolicyFromBackupsetConfig(t *testing.T) {
	cfg, err := config.ParseString("[holland:backup]\npurge-policy = before-backup\n")
	require.NoError(t, err)

	var purged bool
	h := NewRotateHook(PurgeAfterBackup)
	h.Bind(Context{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Purge:  func(exclude ...string) error { purged = true; return nil },
	})

	assert.NoError(t, h.Handle(EventBeforeBackup))
	assert.True(t, purged, "purge-policy=before-backup from config must override the after-backup constructor default")
}
