package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

// FilesystemStore keeps document bytes under a root directory, one file per
// blob key plus a sidecar recording the content type. Keys are slash-separated
// and must stay inside the root; anything resolving outside is rejected.
type FilesystemStore struct {
	root string
}

var _ ports.BlobStore = (*FilesystemStore)(nil)

// NewFilesystemStore creates the store and its root directory.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &FilesystemStore{root: abs}, nil
}

func (s *FilesystemStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: invalid blob key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *FilesystemStore) Put(_ context.Context, key string, contentType string, data []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}
	// Write-then-rename so readers never observe a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit blob: %w", err)
	}
	if err := os.WriteFile(path+".ctype", []byte(contentType), 0o640); err != nil {
		return fmt.Errorf("write content type: %w", err)
	}
	return nil
}

func (s *FilesystemStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("open blob: %w", err)
	}
	contentType := ""
	if raw, err := os.ReadFile(path + ".ctype"); err == nil {
		contentType = strings.TrimSpace(string(raw))
	}
	return f, contentType, nil
}

func (s *FilesystemStore) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	_ = os.Remove(path + ".ctype")
	return nil
}
