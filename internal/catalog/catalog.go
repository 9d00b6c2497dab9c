package catalog

import (
	"context"
	"fmt"

	"github.com/holland-backup/holland/internal/config"
)

// Error wraps any catalog failure, carrying the original driver error
// via %w so callers can still errors.Is/As through it.
type Error struct {
	msg string
	err error
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.err }

func errorf(err error, format string, args ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, args...), err: err}
}

// Catalog is the relational store of jobs and backups. Implementations
// are provided for sqlite (default) and postgres (sqlite.go, postgres.go),
// selected by the scheme of the catalog-db URL.
type Catalog interface {
	// SaveJob persists job, assigning its ID if new.
	SaveJob(ctx context.Context, job *Job) error
	// SaveBackup persists backup, assigning its ID if new.
	SaveBackup(ctx context.Context, backup *Backup) error

	LoadBackup(ctx context.Context, name string) (*Backup, error)
	// LoadBackupFromNode reconstructs a Backup for a node that may not
	// have a catalog row (e.g. release() on an orphaned node), falling
	// back to parsing .holland/status and reporting status "failed" if
	// that file is missing or unreadable.
	LoadBackupFromNode(ctx context.Context, nodePath string) (*Backup, error)

	PreviousBackup(ctx context.Context, backup *Backup) (*Backup, error)
	NextBackup(ctx context.Context, backup *Backup) (*Backup, error)
	ListBackups(ctx context.Context, name string) ([]*Backup, error)
	ListJobs(ctx context.Context) ([]*Job, error)

	Close() error
}

// LoadFromConfig opens the catalog named by config's `catalog-db` URL.
func LoadFromConfig(ctx context.Context, cfg *config.Tree) (Catalog, error) {
	url := cfg.GetString("catalog-db")
	if url == "" {
		url = "sqlite://"
	}
	return Open(ctx, url)
}

// Open dispatches on url's scheme to the sqlite or postgres backend.
func Open(ctx context.Context, url string) (Catalog, error) {
	switch {
	case url == "sqlite://" || hasPrefix(url, "sqlite://") || hasPrefix(url, "sqlite:///"):
		return OpenSQLite(ctx, sqlitePath(url))
	case hasPrefix(url, "postgres://") || hasPrefix(url, "postgresql://"):
		return OpenPostgres(ctx, url)
	default:
		// bare filesystem path: default to sqlite when no scheme is present.
		return OpenSQLite(ctx, url)
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func sqlitePath(url string) string {
	for _, prefix := range []string{"sqlite:///", "sqlite://"} {
		if hasPrefix(url, prefix) {
			path := url[len(prefix):]
			if path == "" {
				return ":memory:"
			}
			return path
		}
	}
	return url
}
