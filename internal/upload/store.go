// Package upload holds uploaded audio blobs on disk for the lifetime of a
// single request.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Asset is a request-scoped handle to one stored file. The request that
// created it owns it and must Remove it before finishing.
type Asset struct {
	Path         string
	OriginalName string
	ContentType  string
}

// Store writes transient uploads into a scratch directory.
type Store struct {
	dir string
}

// NewStore creates the scratch directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save copies r into a uuid-named file, keeping the original extension so
// the provider can infer the audio format.
func (s *Store) Save(r io.Reader, originalName, contentType string) (*Asset, error) {
	name := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close upload file: %w", err)
	}

	return &Asset{Path: path, OriginalName: originalName, ContentType: contentType}, nil
}

// Remove deletes a stored file. An already-deleted file is a no-op so
// callers can retry cleanup without treating it as a failure.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file %s: %w", path, err)
	}
	return nil
}
