package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/justicelink/case-management/internal"
)

// LocalStore writes document bytes under a single directory on the local
// filesystem. The stored reference is the file name relative to the root.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := filepath.Base(key)
	path := filepath.Join(s.root, ref)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", internal.NewInternalError("failed to create file", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", internal.NewInternalError("failed to write file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", internal.NewInternalError("failed to flush file", err)
	}

	return ref, nil
}

func (s *LocalStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.root, filepath.Base(ref))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, internal.NewNotFoundError("stored file not found", internal.ErrCodeDocumentNotFound)
		}
		return nil, internal.NewInternalError("failed to open file", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.root, filepath.Base(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return internal.NewInternalError("failed to delete file", err)
	}
	return nil
}
