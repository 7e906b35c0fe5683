package ports

import (
	"context"
	"io"
)

// BlobStore persists uploaded verification-document bytes under a file key.
// The database row keeps the key; bytes never enter Postgres.
type BlobStore interface {
	Put(ctx context.Context, key string, contentType string, data []byte) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// DocumentFile is an opened blob ready to stream to the client.
// The caller owns Body and must close it.
type DocumentFile struct {
	Body        io.ReadCloser
	ContentType string
	FileName    string
	SizeBytes   int64
}
