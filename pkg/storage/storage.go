// Package storage provides thin file persistence helpers shared by the
// artifact writers.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

type Storage struct{}

func (s *Storage) SaveFile(filePath string, content []byte) error {
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// HasFile reports whether a path exists; it does not distinguish files from
// directories.
func (s *Storage) HasFile(fn string) bool {
	return fileExists(fn)
}
