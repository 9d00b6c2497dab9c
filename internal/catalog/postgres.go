package catalog

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/holland-backup/holland/internal/catalog/migrate"
	"github.com/holland-backup/holland/internal/config"
)

// postgresCatalog is the alternate catalog backend, selected when the
// catalog-db URL has a postgres:// scheme, using a pgx-based
// repository access pattern.
type postgresCatalog struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenPostgres(ctx context.Context, url string) (Catalog, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, errorf(err, "catalog: opening postgres at %s", url)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errorf(err, "catalog: pinging postgres")
	}
	if err := migrate.Apply(db, "postgres"); err != nil {
		db.Close()
		return nil, err
	}
	return &postgresCatalog{db: db, logger: slog.Default()}, nil
}

func (c *postgresCatalog) Close() error { return c.db.Close() }

func (c *postgresCatalog) SaveJob(ctx context.Context, job *Job) error {
	if job.ExternalID == "" {
		job.ExternalID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = StatusRunning
	}
	if job.ID == 0 {
		err := c.db.QueryRowContext(ctx,
			`INSERT INTO job (external_id, pid, command_line, start_time, stop_time, status, is_dryrun) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			job.ExternalID, job.PID, job.CommandLine, job.StartTime, job.StopTime, job.Status, job.IsDryrun).Scan(&job.ID)
		if err != nil {
			return errorf(err, "catalog: inserting job")
		}
		return nil
	}
	_, err := c.db.ExecContext(ctx,
		`UPDATE job SET stop_time = $1, status = $2, is_dryrun = $3 WHERE id = $4`,
		job.StopTime, job.Status, job.IsDryrun, job.ID)
	if err != nil {
		return errorf(err, "catalog: updating job %d", job.ID)
	}
	return nil
}

func (c *postgresCatalog) SaveBackup(ctx context.Context, b *Backup) error {
	if b.ExternalID == "" {
		b.ExternalID = uuid.NewString()
	}
	if b.ID == 0 {
		err := c.db.QueryRowContext(ctx,
			`INSERT INTO backup (job_id, external_id, name, backup_directory, config_path, config, start_time, stop_time, status, message, real_size, estimated_size)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
			b.JobID, b.ExternalID, b.Name, b.BackupDirectory, b.ConfigPath, b.Config, b.StartTime, b.StopTime, b.Status, b.Message, b.RealSize, b.EstimatedSize).
			Scan(&b.ID)
		if err != nil {
			return errorf(err, "catalog: inserting backup")
		}
		return nil
	}
	_, err := c.db.ExecContext(ctx,
		`UPDATE backup SET stop_time = $1, status = $2, message = $3, real_size = $4, estimated_size = $5 WHERE id = $6`,
		b.StopTime, b.Status, b.Message, b.RealSize, b.EstimatedSize, b.ID)
	if err != nil {
		return errorf(err, "catalog: updating backup %d", b.ID)
	}
	return nil
}

func (c *postgresCatalog) LoadBackup(ctx context.Context, name string) (*Backup, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+backupColumns+` FROM backup WHERE name = $1 ORDER BY start_time LIMIT 1`, name)
	b, err := scanBackup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errorf(err, "catalog: loading backup %q", name)
	}
	return b, nil
}

func (c *postgresCatalog) LoadBackupFromNode(ctx context.Context, nodePath string) (*Backup, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+backupColumns+` FROM backup WHERE backup_directory = $1 LIMIT 1`, nodePath)
	b, err := scanBackup(row)
	if err == nil {
		return b, nil
	}
	if err != sql.ErrNoRows {
		return nil, errorf(err, "catalog: loading backup for node %q", nodePath)
	}
	b = &Backup{BackupDirectory: nodePath, Status: StatusFailed, Name: filepath.Base(filepath.Dir(nodePath))}
	if tree, perr := config.ParseFile(filepath.Join(nodePath, ".holland", "status")); perr == nil {
		if sec, ok := tree.Get("holland:backup").(*config.Tree); ok {
			if status := sec.GetString("status"); status != "" {
				b.Status = status
			}
		}
	}
	return b, nil
}

func (c *postgresCatalog) PreviousBackup(ctx context.Context, b *Backup) (*Backup, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+backupColumns+` FROM backup WHERE name = $1 AND start_time < $2 ORDER BY start_time DESC LIMIT 1`,
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

func (c *postgresCatalog) NextBackup(ctx context.Context, b *Backup) (*Backup, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+backupColumns+` FROM backup WHERE name = $1 AND start_time > $2 ORDER BY start_time ASC LIMIT 1`,
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

func (c *postgresCatalog) ListBackups(ctx context.Context, name string) ([]*Backup, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+backupColumns+` FROM backup WHERE name = $1 ORDER BY start_time`, name)
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

func (c *postgresCatalog) ListJobs(ctx context.Context) ([]*Job, error) {
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
