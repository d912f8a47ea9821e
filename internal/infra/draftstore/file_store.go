// Package draftstore provides the key/value backends behind wizard drafts.
package draftstore

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const draftFileExt = ".json"

// FileStore keeps one file per draft key under a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create draft dir %s", dir)
	}

	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read draft %s", key)
	}

	return data, true, nil
}

// Put writes through a temp file and rename so readers never see a partial draft.
func (s *FileStore) Put(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".draft-*")
	if err != nil {
		return errors.Wrap(err, "create temp draft")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return errors.Wrapf(err, "write draft %s", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close draft %s", key)
	}

	return errors.Wrapf(os.Rename(tmp.Name(), s.path(key)), "commit draft %s", key)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "delete draft %s", key)
	}

	return nil
}

// keys such as "edit:<id>" are not portable file names
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, base64.RawURLEncoding.EncodeToString([]byte(key))+draftFileExt)
}
