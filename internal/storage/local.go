package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"feira/internal/apperror"
)

// LocalStore keeps files on the local filesystem at <root>/<folder>/<name>.
type LocalStore struct {
	root string
	now  func() time.Time
}

// NewLocalStore creates a LocalStore rooted at root (usually "imagens").
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root, now: time.Now}
}

// WithClock overrides the clock used to name stored files.
func (s *LocalStore) WithClock(now func() time.Time) *LocalStore {
	s.now = now
	return s
}

// Root returns the directory that holds every folder.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Store(_ context.Context, folder Folder, file *multipart.FileHeader) (string, error) {
	dir := filepath.Join(s.root, string(folder))
	if err := os.MkdirAll(dir, 0o777); err != nil {
		log.Printf("MkdirAll %s failed: %v", dir, err)
		return "", apperror.StorageWrite(err)
	}

	if clientBase(file.Filename) == "" {
		return "", apperror.StorageWrite(errors.New("upload has no file name"))
	}
	name := StoredName(s.now(), file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", apperror.StorageWrite(fmt.Errorf("open upload: %w", err))
	}
	defer func() { _ = src.Close() }()

	dst := filepath.Join(dir, name)
	out, err := os.Create(dst)
	if err != nil {
		log.Printf("Create %s failed: %v", dst, err)
		return "", apperror.StorageWrite(err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		log.Printf("Write %s failed: %v", dst, err)
		return "", apperror.StorageWrite(err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", apperror.StorageWrite(err)
	}
	return name, nil
}

func (s *LocalStore) Delete(_ context.Context, folder Folder, name string) error {
	if name == "" {
		return nil
	}
	p := filepath.Join(s.root, string(folder), filepath.Base(name))
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", p, err)
	}
	return nil
}

func (s *LocalStore) Exists(_ context.Context, folder Folder, name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	_, err := os.Stat(filepath.Join(s.root, string(folder), filepath.Base(name)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
