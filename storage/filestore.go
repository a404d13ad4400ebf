// Package storage is the blob store behind task attachments.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore is the narrow contract the attachment service depends on.
type FileStore interface {
	// Save writes the stream under a store-chosen path derived from the
	// original filename and returns the path and the number of bytes written.
	Save(fileName string, r io.Reader) (path string, size int64, err error)
	Open(path string) (io.ReadCloser, error)
	Delete(path string) error
	Exists(path string) bool
}

// DiskStore keeps blobs on the local filesystem under a single root
// directory, with UUID-prefixed names to avoid collisions.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %v", root, err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(fileName string, r io.Reader) (string, int64, error) {
	name := uuid.New().String() + "_" + filepath.Base(fileName)
	path := filepath.Join(s.root, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write file: %v", err)
	}
	return path, size, nil
}

func (s *DiskStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (s *DiskStore) Delete(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *DiskStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
