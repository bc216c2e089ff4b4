package credential

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// FileStore keeps the API key as a single line in a 0600 file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", errors.Wrap(err, "failed to read key file")
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrNotFound
	}
	return key, nil
}

func (s *FileStore) Save(key string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrap(err, "failed to create key directory")
	}
	if err := os.WriteFile(s.path, []byte(key+"\n"), 0600); err != nil {
		return errors.Wrap(err, "failed to write key file")
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove key file")
	}
	return nil
}
