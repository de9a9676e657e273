package db

import "database/sql"

// DB wraps the sql handle so callers depend on this package,
// not on the driver.
type DB struct {
	*sql.DB
}
