package object

import (
	"context"
	"io"
)

// Store defines the contract for saving, retrieving and removing raw
// document bytes addressed by an opaque storage key.
type Store interface {
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
