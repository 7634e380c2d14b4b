package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes uploaded files to a directory on disk. Files are stored
// under a generated name; the original filename only contributes the extension.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return path, nil
}

// Delete removes a stored file. Returns false when the file did not exist.
func (s *LocalStore) Delete(path string) bool {
	if err := os.Remove(path); err != nil {
		return false
	}
	return true
}
