package storage

import (
	"context"
	"io"
)

// Storage persists uploaded image bytes under a generated unique name
// and returns that name. What serves the bytes back depends on the
// backend: local files are exposed statically under /uploads, GCS
// objects through the bucket.
type Storage interface {
	Save(ctx context.Context, r io.Reader, ext, contentType string) (filename string, err error)
}
