package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rpupo63/platefeed-backend/errs"
)

// Store persists uploaded recipe images. Save writes the bytes under the
// given name and returns the reference to record on the recipe.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// DiskStore keeps images on the local filesystem under a media root.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to create media root", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(_ context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errs.NewInternalErrorWithCause("failed to write image", err)
	}
	return path, nil
}
