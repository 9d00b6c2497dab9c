package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCatalog(t *testing.T) Catalog {
	t.Helper()
	cat, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })
	return cat
}

func TestSaveJobAssignsID(t *testing.T) {
	cat := openTestCatalog(t)
	ctx := context.Background()

	job := &Job{StartTime: time.Now()}
	require.NoError(t, cat.SaveJob(ctx, job))
	assert.NotZero(t, job.ID)
	assert.NotEmpty(t, job.ExternalID)
}

func TestSaveJobUpdateExisting(t *testing.T) {
	cat := openTestCatalog(t)
	ctx := context.Background()

	job := &Job{StartTime: time.Now()}
	require.NoError(t, cat.SaveJob(ctx, job))

	stop := time.Now()
	job.StopTime = &stop
	job.IsDryrun = true
	require.NoError(t, cat.SaveJob(ctx, job))

	jobs, err := cat.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.True(t, jobs[0].IsDryrun)
	require.NotNil(t, jobs[0].StopTime)
}

func TestSaveAndLoadBackup(t *testing.T) {
	cat := openTestCatalog(t)
	ctx := context.Background()

	job := &Job{StartTime: time.Now()}
	require.NoError(t, cat.SaveJob(ctx, job))

	backup := &Backup{
		JobID:           job.ID,
		Name:            "alpha",
		BackupDirectory: "/spool/alpha/node1",
		StartTime:       time.Now(),
		Status:          StatusRunning,
	}
	require.NoError(t, cat.SaveBackup(ctx, backup))
	assert.NotZero(t, backup.ID)

	backup.Status = StatusCompleted
	require.NoError(t, cat.SaveBackup(ctx, backup))

	loaded, err := cat.LoadBackup(ctx, "alpha")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, StatusCompleted, loaded.Status)
}

func TestLoadBackupMissingReturnsNil(t *testing.T) {
	cat := openTestCatalog(t)
	loaded, err := cat.LoadBackup(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadBackupFromNodeFallsBackToStatusFile(t *testing.T) {
	cat := openTestCatalog(t)
	dir := t.TempDir()
	statusDir := filepath.Join(dir, ".holland")
	require.NoError(t, os.MkdirAll(statusDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(statusDir, "status"), []byte("[holland:backup]\nstatus = failed\n"), 0600))

	backup, err := cat.LoadBackupFromNode(context.Background(), dir)
	require.NoError(t, err)
	require.NotNil(t, backup)
	assert.Equal(t, StatusFailed, backup.Status)
}

func TestPreviousAndNextBackup(t *testing.T) {
	cat := openTestCatalog(t)
	ctx := context.Background()

	job := &Job{StartTime: time.Now()}
	require.NoError(t, cat.SaveJob(ctx, job))

	base := time.Now()
	var backups []*Backup
	for i := 0; i < 3; i++ {
		b := &Backup{
			JobID:           job.ID,
			Name:            "alpha",
			BackupDirectory: "/spool/alpha/node",
			StartTime:       base.Add(time.Duration(i) * time.Minute),
			Status:          StatusCompleted,
		}
		require.NoError(t, cat.SaveBackup(ctx, b))
		backups = append(backups, b)
	}

	prev, err := cat.PreviousBackup(ctx, backups[1])
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, backups[0].ID, prev.ID)

	next, err := cat.NextBackup(ctx, backups[1])
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, backups[2].ID, next.ID)

	all, err := cat.ListBackups(ctx, "alpha")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
