package domain

import (
	"context"
	"time"
)

// ID is an opaque, store-generated identifier. Two IDs refer to the same
// record exactly when they compare equal.
type ID string

// User represents a registered author.
type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users.
// Create must reject a duplicate username with ErrDuplicateUsername based on
// the store's own unique index, not a prior lookup.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id ID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// PasswordHasher produces and checks one-way password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
