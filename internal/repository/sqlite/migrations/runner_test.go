package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/msomdec/inkwell/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Each :memory: connection is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	n, err := migrations.Run(ctx, db)
	if err != nil {
		t.Fatalf("first migration run: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 migrations applied, got %d", n)
	}

	if _, err := db.ExecContext(ctx,
		"INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)",
		"u1", "alice", "hash",
	); err != nil {
		t.Fatalf("insert into users: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO posts (id, title, author_id) VALUES (?, ?, ?)",
		"p1", "T1", "u1",
	); err != nil {
		t.Fatalf("insert into posts: %v", err)
	}
}

func TestRunIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if _, err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	n, err := migrations.Run(ctx, db)
	if err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no migrations on second run, got %d", n)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 migration records, got %d", count)
	}
}

func TestUniqueColumns(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()
	if _, err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	insert := "INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)"
	if _, err := db.ExecContext(ctx, insert, "u1", "alice", "h"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.ExecContext(ctx, insert, "u2", "alice", "h"); err == nil {
		t.Fatal("expected duplicate username to be rejected")
	}
	// Uniqueness is exact-match and case-sensitive.
	if _, err := db.ExecContext(ctx, insert, "u3", "Alice", "h"); err != nil {
		t.Fatalf("differently-cased username should be accepted: %v", err)
	}
}
