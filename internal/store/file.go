package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

var _ Collection[struct{}] = (*File[struct{}])(nil)

// File keeps a collection in a single JSON file. Every Save rewrites the
// whole file; a crash mid-write can leave it truncated.
type File[T any] struct {
	path string
}

// NewFile returns a File collection backed by path. The file is created
// lazily on the first Load.
func NewFile[T any](path string) *File[T] {
	return &File[T]{path: path}
}

// Path returns the backing file path.
func (f *File[T]) Path() string {
	return f.path
}

// Load reads the collection, creating the file with an empty array first
// when it does not exist.
func (f *File[T]) Load(ctx context.Context) ([]T, error) {
	if err := f.ensure(ctx); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &StorageError{Op: "read", Path: f.path, Err: err}
	}
	return Decode[T](data, f.path)
}

// Save overwrites the file with records.
func (f *File[T]) Save(_ context.Context, records []T) error {
	data, err := Encode(records)
	if err != nil {
		return &StorageError{Op: "encode", Path: f.path, Err: err}
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return &StorageError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

// Ping reports whether the backing file (or, before the first Load, its
// directory) is reachable.
func (f *File[T]) Ping(_ context.Context) error {
	target := f.path
	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		target = filepath.Dir(f.path)
	}
	if _, err := os.Stat(target); err != nil {
		return errors.Wrapf(err, "stat %s", target)
	}
	return nil
}

func (f *File[T]) ensure(ctx context.Context) error {
	_, err := os.Stat(f.path)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return &StorageError{Op: "stat", Path: f.path, Err: err}
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &StorageError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	if err := os.WriteFile(f.path, []byte("[]"), 0o644); err != nil {
		return &StorageError{Op: "init", Path: f.path, Err: err}
	}
	zctx.From(ctx).Debug("Initialized collection file", zap.String("path", f.path))
	return nil
}
