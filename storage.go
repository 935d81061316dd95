package posekit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage is the persistent key-value collaborator: synchronous get/set of
// a string blob. Set may fail (quota, permissions); callers treat that as a
// soft failure.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// FileStorage keeps each key as one file under a directory. Keys are
// sanitized into filenames.
type FileStorage struct {
	Dir string
}

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{Dir: dir}
}

func (s *FileStorage) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.Dir, safe+".json")
}

func (s *FileStorage) Get(key string) (string, bool) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (s *FileStorage) Set(key, value string) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("storage mkdir: %w", err)
	}
	if err := os.WriteFile(s.path(key), []byte(value), 0644); err != nil {
		return fmt.Errorf("storage write: %w", err)
	}
	return nil
}

// MemStorage is an in-memory Storage for tests and ephemeral sessions.
type MemStorage struct {
	data map[string]string

	// FailSets makes every Set fail, for quota-failure tests.
	FailSets bool
}

func NewMemStorage() *MemStorage {
	return &MemStorage{data: make(map[string]string)}
}

func (s *MemStorage) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *MemStorage) Set(key, value string) error {
	if s.FailSets {
		return fmt.Errorf("storage quota exceeded")
	}
	s.data[key] = value
	return nil
}
