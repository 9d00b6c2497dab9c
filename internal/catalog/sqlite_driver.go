package catalog

import "os"

// cgoSQLiteDriverAvailable is set true by sqlite_cgo.go's init when built
// with cgo enabled.
var cgoSQLiteDriverAvailable = false

// sqlDriverName picks the database/sql driver name to use for the sqlite
// catalog: the cgo-based "sqlite3" driver if the binary was built with
// cgo and CATALOG_SQLITE_DRIVER=sqlite3 is set, else the default pure-Go
// "sqlite" driver.
func sqlDriverName() string {
	if cgoSQLiteDriverAvailable && os.Getenv("CATALOG_SQLITE_DRIVER") == "sqlite3" {
		return "sqlite3"
	}
	return "sqlite"
}
