package sqlite

import "database/sql"

// Conn exposes the underlying connection to tests that inspect the schema.
func (db *DB) Conn() *sql.DB { return db.sqlDB }
