package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local writes uploads into a directory on disk under <uuid><ext>
// names, mirroring how the files are later served statically.
type Local struct {
	Dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{Dir: dir}, nil
}

func (l *Local) Save(_ context.Context, r io.Reader, ext, _ string) (string, error) {
	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(l.Dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

var _ Storage = (*Local)(nil)
