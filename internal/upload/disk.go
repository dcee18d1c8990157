// Package upload stores post attachments on the local filesystem.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix is the path prefix of stored files, and the URL prefix they
// are served under.
const PublicPrefix = "uploads"

// DiskStore implements domain.UploadStore on a directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory files are written to.
func (s *DiskStore) Dir() string { return s.dir }

// Save writes content under a fresh random name, then renames the file to
// carry the extension of originalName. It returns "uploads/<name>.<ext>".
func (s *DiskStore) Save(ctx context.Context, originalName string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpName := uuid.NewString()
	tmpPath := filepath.Join(s.dir, tmpName)

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close upload: %w", err)
	}

	name := tmpName
	if ext := Extension(originalName); ext != "" {
		name = tmpName + "." + ext
		if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
			os.Remove(tmpPath)
			return "", fmt.Errorf("rename upload: %w", err)
		}
	}

	return path.Join(PublicPrefix, name), nil
}

// Remove deletes a file previously returned by Save. Removing a file that
// is already gone is not an error.
func (s *DiskStore) Remove(ctx context.Context, stored string) error {
	name := path.Base(stored)
	if name == "." || name == "/" || name == ".." {
		return fmt.Errorf("invalid upload path %q", stored)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// Extension returns the part of a file name after its last '.', or "" when
// the base name has no dot or ends in one.
func Extension(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return base[i+1:]
}
