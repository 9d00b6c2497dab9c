//go:build cgo

package catalog

// Importing mattn/go-sqlite3 registers the cgo-based "sqlite3" database/sql
// driver as an alternative to the pure-Go modernc.org/sqlite driver used
// by default. Building with cgo enabled and CATALOG_SQLITE_DRIVER=sqlite3
// set selects it via sqlDriverName below — useful when an operator needs
// sqlite3 extensions the pure-Go driver doesn't support.
import _ "github.com/mattn/go-sqlite3"

func init() {
	cgoSQLiteDriverAvailable = true
}
