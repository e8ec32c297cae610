package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON file per (adventure, user) under a root
// directory. Writes go through a temp file and rename so a crash never
// leaves a half-written save.
type FileStore struct {
	root string
}

// NewFileStore creates the root directory if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) path(adventure, user string) string {
	return filepath.Join(s.root, sanitize(adventure), sanitize(user)+".json")
}

// sanitize keeps keys usable as file names.
func sanitize(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_", ":", "_")
	return r.Replace(key)
}

func (s *FileStore) Load(adventure, user string) ([]byte, error) {
	data, err := os.ReadFile(s.path(adventure, user))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FileStore) Save(adventure, user string, data []byte) error {
	p := s.path(adventure, user)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (s *FileStore) Delete(adventure, user string) error {
	err := os.Remove(s.path(adventure, user))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) Close() error { return nil }
