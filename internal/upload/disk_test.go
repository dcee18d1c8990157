package upload_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/inkwell/internal/upload"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "cover.png", "png"},
		{"last dot wins", "archive.tar.gz", "gz"},
		{"no dot", "README", ""},
		{"trailing dot", "weird.", ""},
		{"dotfile", ".env", "env"},
		{"directory stripped", "../../etc/passwd.jpg", "jpg"},
		{"windows path", `C:\Users\me\photo.JPG`, "JPG"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := upload.Extension(tc.in); got != tc.want {
				t.Fatalf("Extension(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDiskStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := upload.NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	stored, err := store.Save(context.Background(), "photo.jpeg", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasPrefix(stored, "uploads/") {
		t.Fatalf("expected uploads/ prefix, got %q", stored)
	}
	if !strings.HasSuffix(stored, ".jpeg") {
		t.Fatalf("expected .jpeg suffix, got %q", stored)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(stored)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Fatalf("unexpected content %q", data)
	}

	// Only the renamed file remains.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file in upload dir, got %d", len(entries))
	}
}

func TestDiskStore_SaveDistinctNames(t *testing.T) {
	store, err := upload.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	a, err := store.Save(ctx, "same.png", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save a: %v", err)
	}
	b, err := store.Save(ctx, "same.png", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save b: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct stored paths, both %q", a)
	}
}

func TestDiskStore_SaveWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	store, err := upload.NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	stored, err := store.Save(context.Background(), "noext", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(filepath.Base(stored), ".") {
		t.Fatalf("expected no extension, got %q", stored)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.Base(stored))); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestDiskStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store, err := upload.NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	stored, err := store.Save(ctx, "gone.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Remove(ctx, stored); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.Base(stored))); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err = %v", err)
	}

	if err := store.Remove(ctx, stored); err != nil {
		t.Fatalf("second Remove should be a no-op, got %v", err)
	}
}

func TestNewDiskStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := upload.NewDiskStore(dir); err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory to exist, err = %v", err)
	}
}
