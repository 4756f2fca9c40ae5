package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// FileStore keeps one file per entry in a single directory, named by the store
// key. Keys produced by Key() are already file-safe.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create persist directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Put(key string, data []byte) error {
	if err := os.WriteFile(filepath.Join(s.dir, key), data, os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write persisted entry: %w", err)
	}
	return nil
}

func (s *FileStore) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Keys lists every stored key with the given prefix. Unreadable directories
// yield an empty list; the mirror is best-effort by contract.
func (s *FileStore) Keys(prefix string) []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.WithError(err).Warnf("failed to list persist directory %s", s.dir)
		return nil
	}
	var keys []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			keys = append(keys, e.Name())
		}
	}
	return keys
}

// Delete removes an entry. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete persisted entry: %w", err)
	}
	return nil
}
