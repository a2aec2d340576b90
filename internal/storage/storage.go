package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry is how long generated upload/download URLs stay
// valid.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage abstracts object storage for client progress photos.
type FileStorage interface {
	// GeneratePresignedUploadURL returns a temporary URL the client PUTs the
	// photo to directly; the service never proxies the bytes.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)
	// GeneratePresignedDownloadURL returns a temporary URL to view a stored
	// photo.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	// DeleteObject removes a stored photo.
	DeleteObject(ctx context.Context, objectKey string) error
}
