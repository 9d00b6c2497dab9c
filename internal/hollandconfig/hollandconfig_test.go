package hollandconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStringFillsDefaults(t *testing.T) {
	cfg, _, err := LoadString(`
[holland]
backup-directory = /var/spool/holland
backupsets = mysql-main, postgres-main
`)
	require.NoError(t, err)
	assert.Equal(t, "/var/spool/holland", cfg.BackupDirectory)
	assert.Equal(t, []string{"mysql-main", "postgres-main"}, cfg.Backupsets)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 18, cfg.Umask)
}

func TestLoadStringRejectsBadLogFormat(t *testing.T) {
	_, _, err := LoadString(`
[logging]
format = yaml
`)
	require.Error(t, err)
}

func TestLoadBackupset(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/mysql-main.conf"
	require.NoError(t, os.WriteFile(path, []byte("[holland:backup]\nbackup-plugin = mysqldump\n"), 0600))

	tree, err := LoadBackupset(path)
	require.NoError(t, err)
	assert.Equal(t, "mysqldump", tree.Sub("holland:backup").GetString("backup-plugin"))
}
