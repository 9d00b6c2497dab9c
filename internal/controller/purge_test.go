package controller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holland-backup/holland/internal/catalog"
)

func TestPurgeSetRetainsNewestCompleted(t *testing.T) {
	ctrl := testController(t)
	ctx := context.Background()

	var paths []string
	for i := 0; i < 5; i++ {
		node, err := ctrl.Spool.AddNode("delta", fmt.Sprintf("2020010%d_000000", i+1))
		require.NoError(t, err)
		paths = append(paths, node.Path)

		backup := &catalog.Backup{
			Name:            "delta",
			BackupDirectory: node.Path,
			Status:          catalog.StatusCompleted,
		}
		require.NoError(t, ctrl.Catalog.SaveBackup(ctx, backup))
		require.NoError(t, writeStatus(node.Path, "completed"))
	}

	require.NoError(t, ctrl.PurgeSet(ctx, "delta", PurgeOptions{RetentionCount: 2}, nil))

	nodes, err := ctrl.Spool.IterNodes("delta")
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	newest, err := os.Readlink(filepath.Join(ctrl.Spool.Path, "delta", "newest"))
	require.NoError(t, err)
	require.Equal(t, paths[len(paths)-1], newest)
}

func TestPurgeSetDryRunMakesNoChanges(t *testing.T) {
	ctrl := testController(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		node, err := ctrl.Spool.AddNode("epsilon", fmt.Sprintf("2020010%d_000000", i+1))
		require.NoError(t, err)
		require.NoError(t, writeStatus(node.Path, "completed"))
	}

	require.NoError(t, ctrl.PurgeSet(ctx, "epsilon", PurgeOptions{RetentionCount: 1, DryRun: true}, nil))

	nodes, err := ctrl.Spool.IterNodes("epsilon")
	require.NoError(t, err)
	require.Len(t, nodes, 3)
}

func writeStatus(nodePath, status string) error {
	return os.WriteFile(filepath.Join(nodePath, ".holland", "status"), []byte("[holland:backup]\nstatus = "+status+"\n"), 0600)
}
