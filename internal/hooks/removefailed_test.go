package hooks

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holland-backup/holland/internal/spool"
)

func TestRemoveFailedDeletesNodeDirectory(t *testing.T) {
	dir := t.TempDir()
	nodePath := dir + "/20260730_000000"
	require.NoError(t, os.MkdirAll(nodePath, 0700))

	h := NewRemoveFailedHook()
	h.Bind(Context{
		Node:   &spool.Node{Path: nodePath},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	require.NoError(t, h.Handle(EventFailedBackup))

	_, err := os.Stat(nodePath)
	require.True(t, os.IsNotExist(err))
}

func TestRemoveFailedIgnoresOtherEvents(t *testing.T) {
	dir := t.TempDir()
	h := NewRemoveFailedHook()
	h.Bind(Context{
		Node:   &spool.Node{Path: dir},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	require.NoError(t, h.Handle(EventCompletedBackup))

	_, err := os.Stat(dir)
	require.NoError(t, err)
}
