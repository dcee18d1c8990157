package domain

import "context"

// Database defines lifecycle operations for the underlying store.
// Each backend (SQLite, MongoDB) owns its own schema or index setup,
// so the rest of the application never depends on a concrete driver.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
	Users() UserRepository
	Posts() PostRepository
}
