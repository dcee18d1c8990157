package domain

import (
	"context"
	"io"
)

// UploadStore persists uploaded attachments and returns a path that can be
// served back as a static asset.
type UploadStore interface {
	// Save stores the content and returns its path. The path keeps the
	// extension of originalName so it is self-describing.
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}
