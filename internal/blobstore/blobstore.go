package blobstore

import "context"

// Store is a write-once blob cache over the audio bucket. Get reports a
// missing object as (nil, nil) so callers can treat absence as a cache
// miss rather than a failure.
type Store interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Exists(ctx context.Context, path string) (bool, error)
	PublicURL(path string) string
	StorageURI(path string) string
}
