package storage

import (
	"context"
	"io"
	"time"
)

// FileStorage keeps generated artifacts such as report PDFs.
type FileStorage interface {
	// Upload stores the content and returns the cleaned relative path
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file. A missing file is not an error
	Delete(ctx context.Context, path string) error

	// GetURL returns the public URL of a stored path
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}
