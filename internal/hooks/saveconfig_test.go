package hooks

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holland-backup/holland/internal/config"
	"github.com/holland-backup/holland/internal/spool"
)

func TestSaveConfigWritesConfigToMetadataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".holland"), 0700))

	node := &spool.Node{Path: dir}
	tree := config.New()
	tree.Sub("mysql-lvm").Set("lock-tables", "yes", config.Provenance{})

	h := NewSaveConfigHook()
	h.Bind(Context{
		Node:   node,
		Config: tree,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	require.NoError(t, h.Handle(EventBeforeBackup))

	data, err := os.ReadFile(filepath.Join(dir, ".holland", "config"))
	require.NoError(t, err)
	require.Contains(t, string(data), "lock-tables")
}

func TestSaveConfigNoopsWithoutNode(t *testing.T) {
	h := NewSaveConfigHook()
	h.Bind(Context{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	require.NoError(t, h.Handle(EventBeforeBackup))
}
