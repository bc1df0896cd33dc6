package storage

import (
	"context"
	"io"
	"time"
)

type FileStorage interface {
	// Upload uploads a file and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// GetURL generates a presigned/public URL
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// PathFromURL maps a URL returned by GetURL back to its path/key
	PathFromURL(url string) (string, bool)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
