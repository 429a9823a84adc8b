package storage

import (
	"context"
	"io"
	"time"
)

// StorageInterface abstracts photo storage. The local implementation serves
// demo deployments; a cloud-backed one can be swapped in without touching
// the handlers.
type StorageInterface interface {
	GenerateUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)
	FileExists(ctx context.Context, key string) (bool, int64, error)
	DeleteFile(ctx context.Context, key string) error
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
}
