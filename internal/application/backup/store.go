package backup

import (
	"context"
	"time"
)

// BackupObject describes one stored backup file
type BackupObject struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// BackupStore holds backup files outside the database.
// Implemented by the infrastructure layer (S3, MinIO, memory).
type BackupStore interface {
	// Put stores a file under key
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// Get returns the file under key, or shared.ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the files whose keys start with prefix, newest first
	List(ctx context.Context, prefix string) ([]BackupObject, error)

	// DownloadURL returns a presigned URL and its expiry
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}
