package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/holland-backup/holland/internal/catalog/migrate"
	"github.com/holland-backup/holland/internal/config"
)

// sqliteCatalog is the default catalog backend: a single sqlite file,
// grounded on internal/storage/sqlite/sqlite_storage.go's connection
// pool and PRAGMA setup, re-targeted at the job/backup schema instead
// of the alert-history one.
type sqliteCatalog struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the sqlite catalog at path,
// applying schema migrations and WAL/foreign-key pragmas.
func OpenSQLite(ctx context.Context, path string) (Catalog, error) {
	logger := slog.Default()

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, errorf(err, "catalog: creating directory for %s", path)
		}
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=journal_mode(WAL)", path)
	if path == ":memory:" {
		dsn = "file::memory:?cache=shared"
	}
	db, err := sql.Open(sqlDriverName(), dsn)
	if err != nil {
		return nil, errorf(err, "catalog: opening sqlite at %s", path)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errorf(err, "catalog: pinging sqlite at %s", path)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errorf(err, "catalog: enabling foreign keys")
	}
	if err := migrate.Apply(db, "sqlite3"); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("catalog: opened sqlite catalog", "path", path)
	return &sqliteCatalog{db: db, path: path, logger: logger}, nil
}

func (c *sqliteCatalog) Close() error { return c.db.Close() }

func (c *sqliteCatalog) SaveJob(ctx context.Context, job *Job) error {
	if job.ExternalID == "" {
		job.ExternalID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = StatusRunning
	}
	if job.ID == 0 {
		res, err := c.db.ExecContext(ctx,
			`INSERT INTO job (external_id, pid, command_line, start_time, stop_time, status, is_dryrun) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			job.ExternalID, job.PID, job.CommandLine, job.StartTime, job.StopTime, job.Status, job.IsDryrun)
		if err != nil {
			return errorf(err, "catalog: inserting job")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return errorf(err, "catalog: reading job id")
		}
		job.ID = id
		return nil
	}
	_, err := c.db.ExecContext(ctx,
		`UPDATE job SET stop_time = ?, status = ?, is_dryrun = ? WHERE id = ?`,
		job.StopTime, job.Status, job.IsDryrun, job.ID)
	if err != nil {
		return errorf(err, "catalog: updating job %d", job.ID)
	}
	return nil
}

func (c *sqliteCatalog) SaveBackup(ctx context.Context, b *Backup) error {
	if b.ExternalID == "" {
		b.ExternalID = uuid.NewString()
	}
	if b.ID == 0 {
		res, err := c.db.ExecContext(ctx,
			`INSERT INTO backup (job_id, external_id, name, backup_directory, config_path, config, start_time, stop_time, status, message, real_size, estimated_size)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.JobID, b.ExternalID, b.Name, b.BackupDirectory, b.ConfigPath, b.Config, b.StartTime, b.StopTime, b.Status, b.Message, b.RealSize, b.EstimatedSize)
		if err != nil {
			return errorf(err, "catalog: inserting backup")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return errorf(err, "catalog: reading backup id")
		}
		b.ID = id
		return nil
	}
	_, err := c.db.ExecContext(ctx,
		`UPDATE backup SET stop_time = ?, status = ?, message = ?, real_size = ?, estimated_size = ? WHERE id = ?`,
		b.StopTime, b.Status, b.Message, b.RealSize, b.EstimatedSize, b.ID)
	if err != nil {
		return errorf(err, "catalog: updating backup %d", b.ID)
	}
	return nil
}

const backupColumns = `id, job_id, external_id, name, backup_directory, config_path, config, start_time, stop_time, status, message, real_size, estimated_size`

func scanBackup(row interface{ Scan(dest ...interface{}) error }) (*Backup, error) {
	b := &Backup{}
	if err := row.Scan(&b.ID, &b.JobID, &b.ExternalID, &b.Name, &b.BackupDirectory, &b.ConfigPath, &b.Config,
		&b.StartTime, &b.StopTime, &b.Status, &b.Message, &b.RealSize, &b.EstimatedSize); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *sqliteCatalog) LoadBackup(ctx context.Context, name string) (*Backup, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+backupColumns+` FROM backup WHERE name = ? ORDER BY start_time LIMIT 1`, name)
	b, err := scanBackup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errorf(err, "catalog: loading backup %q", name)
	}
	return b, nil
}

// LoadBackupFromNode reconstructs a Backup for a node path, falling back
// to status "failed" if .holland/status can't be read.
func (c *sqliteCatalog) LoadBackupFromNode(ctx context.Context, nodePath string) (*Backup, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+backupColumns+` FROM backup WHERE backup_directory = ? LIMIT 1`, nodePath)
	b, err := scanBackup(row)
	if err == nil {
		return b, nil
	}
	if err != sql.ErrNoRows {
		return nil, errorf(err, "catalog: loading backup for node %q", nodePath)
	}

	b = &Backup{BackupDirectory: nodePath, Status: StatusFailed}
	statusPath := filepath.Join(nodePath, ".holland", "status")
	tree, perr := config.ParseFile(statusPath)
	if perr != nil {
		return b, nil
	}
	if sec, ok := tree.Get("holland:backup").(*config.Tree); ok {
		if status := sec.GetString("status"); status != "" {
			b.Status = status
		}
	}
	b.Name = filepath.Base(filepath.Dir(nodePath))
	return b, nil
}

func (c *sqliteCatalog) PreviousBackup(ctx context.Context, b *Backup) (*Backup, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+backupColumns+` FROM backup WHERE name = ? AND start_time < ? ORDER BY start_time DESC LIMIT 1`,
		b.Name, b.StartTime)
	out, err := scanBackup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errorf(err, "catalog: loading previous backup")
	}
	return out, nil
}

func (c *sqliteCatalog) NextBackup(ctx context.Context, b *Backup) (*Backup, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+backupColumns+` FROM backup WHERE name = ? AND start_time > ? ORDER BY start_time ASC LIMIT 1`,
		b.Name, b.StartTime)
	out, err := scanBackup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errorf(err, "catalog: loading next backup")
	}
	return out, nil
}

func (c *sqliteCatalog) ListBackups(ctx context.Context, name string) ([]*Backup, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+backupColumns+` FROM backup WHERE name = ? ORDER BY start_time`, name)
	if err != nil {
		return nil, errorf(err, "catalog: listing backups for %q", name)
	}
	defer rows.Close()
	var out []*Backup
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, errorf(err, "catalog: scanning backup row")
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (c *sqliteCatalog) ListJobs(ctx context.Context) ([]*Job, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, external_id, pid, command_line, start_time, stop_time, status, is_dryrun FROM job ORDER BY start_time`)
	if err != nil {
		return nil, errorf(err, "catalog: listing jobs")
	}
	defer rows.Close()
	var out []*Job
	for rows.Next() {
		j := &Job{}
		if err := rows.Scan(&j.ID, &j.ExternalID, &j.PID, &j.CommandLine, &j.StartTime, &j.StopTime, &j.Status, &j.IsDryrun); err != nil {
			return nil, errorf(err, "catalog: scanning job row")
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
