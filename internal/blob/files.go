// ABOUTME: Local-disk blob storage for uploaded image and audio files
// ABOUTME: Files live under the data dir; entries reference them by URL path
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Kind selects the storage subdirectory for a blob
type Kind string

const (
	KindImage Kind = "images"
	KindAudio Kind = "audio"
)

// Store persists raw media bytes under baseDir/images and baseDir/audio.
// URLs returned to callers are server-relative paths ("/images/<file>").
type Store struct {
	baseDir string
}

// NewStore creates the storage directories and returns a Store
func NewStore(baseDir string) (*Store, error) {
	for _, kind := range []Kind{KindImage, KindAudio} {
		dir := filepath.Join(baseDir, string(kind))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create blob directory %s: %w", dir, err)
		}
	}
	return &Store{baseDir: baseDir}, nil
}

// Dir returns the on-disk directory for a blob kind
func (s *Store) Dir(kind Kind) string {
	return filepath.Join(s.baseDir, string(kind))
}

// Save writes data under a fresh uuid name, preserving the original
// extension, and returns (filename, url).
func (s *Store) Save(data []byte, originalName string, kind Kind) (string, string, error) {
	ext := filepath.Ext(originalName)
	if ext == "" {
		if kind == KindAudio {
			ext = ".mp3"
		} else {
			ext = ".jpg"
		}
	}
	fileName := uuid.New().String() + ext
	path := filepath.Join(s.baseDir, string(kind), fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write blob %s: %w", fileName, err)
	}
	return fileName, "/" + string(kind) + "/" + fileName, nil
}

// Delete removes a stored blob by filename. Missing files are not an
// error; deletion is best effort cleanup.
func (s *Store) Delete(fileName string, kind Kind) error {
	if fileName == "" || strings.Contains(fileName, "/") || strings.Contains(fileName, "..") {
		return fmt.Errorf("invalid blob filename %q", fileName)
	}
	err := os.Remove(filepath.Join(s.baseDir, string(kind), fileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", fileName, err)
	}
	return nil
}
