package file

import (
	"os"
	"path/filepath"

	"github.com/gasparian/lsh-model-go/store"
	"github.com/pkg/errors"
)

// FileStore treats keys as filesystem paths, optionally relative to the root dir
type FileStore struct {
	root string
}

// New creates FileStore; empty root means keys are used as is
func New(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) path(key string) string {
	if s.root == "" || filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(s.root, key)
}

// Put writes blob to a temp file near the target and renames it in place
func (s *FileStore) Put(key string, blob []byte) error {
	path := s.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create dir %q", dir)
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %q", path)
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)

	if _, err := f.Write(blob); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %q", tmpName)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrapf(err, "sync %q", tmpName)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %q", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "rename %q to %q", tmpName, path)
	}
	return nil
}

// Get loads the whole file
func (s *FileStore) Get(key string) ([]byte, error) {
	path := s.path(key)
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(store.ErrNotFound, "%q", path)
		}
		return nil, errors.Wrapf(err, "read %q", path)
	}
	return blob, nil
}

// Close is a no-op
func (s *FileStore) Close() error {
	return nil
}
