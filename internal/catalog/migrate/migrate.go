// Package migrate embeds and applies the catalog's schema migrations via
// goose, trimmed to just the apply-on-open path the catalog needs; the
// catalog applies its own schema at open time rather than through a
// standalone migration CLI.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql
var sqliteFS embed.FS

//go:embed postgres/*.sql
var postgresFS embed.FS

// Apply runs every pending migration for dialect ("sqlite3" or
// "postgres") against db.
func Apply(db *sql.DB, dialect string) error {
	var fsys embed.FS
	var dir string
	switch dialect {
	case "sqlite3", "sqlite":
		fsys, dir = sqliteFS, "sqlite"
		dialect = "sqlite3"
	case "postgres", "pgx":
		fsys, dir = postgresFS, "postgres"
		dialect = "postgres"
	default:
		return fmt.Errorf("migrate: unsupported dialect %q", dialect)
	}

	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fmt.Errorf("migrate: rooting migration fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectType(dialect), db, sub)
	if err != nil {
		return fmt.Errorf("migrate: creating provider: %w", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("migrate: applying %s migrations: %w", dialect, err)
	}
	return nil
}
