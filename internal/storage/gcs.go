package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// GCS stores uploads as objects in a Google Cloud Storage bucket. Used
// instead of Local when GCS_BUCKET is configured.
type GCS struct {
	Client *gcs.Client
	Bucket string
}

// NewGCS creates a GCS-backed store. If credsPath is empty, Application
// Default Credentials are used.
func NewGCS(ctx context.Context, bucket, credsPath string) (*GCS, error) {
	var client *gcs.Client
	var err error
	if credsPath == "" {
		client, err = gcs.NewClient(ctx)
	} else {
		client, err = gcs.NewClient(ctx, option.WithCredentialsFile(credsPath))
	}
	if err != nil {
		return nil, err
	}
	return &GCS{Client: client, Bucket: bucket}, nil
}

func (g *GCS) Save(ctx context.Context, r io.Reader, ext, contentType string) (string, error) {
	name := uuid.NewString() + ext
	wc := g.Client.Bucket(g.Bucket).Object(name).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return name, nil
}

func (g *GCS) Close() error {
	return g.Client.Close()
}

var _ Storage = (*GCS)(nil)
