// Package storage implements the uploaded-image collaborator: a local
// filesystem directory of event images referenced by path from event rows.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gatherly/events-api/internal/core/domain"
)

// MaxImageSize is the upload ceiling for a single event image.
const MaxImageSize = 5 << 20 // 5MB

// publicPrefix is the URL path prefix under which stored images are served.
const publicPrefix = "/images"

// LocalStore writes uploaded images to a directory on disk and hands out
// public-relative references of the form /images/<name>.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns the store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the directory assets are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save persists one uploaded image. Non-image content types and files above
// MaxImageSize are rejected before anything touches the disk. The stored name
// is timestamped plus random so concurrent uploads never collide.
func (s *LocalStore) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > MaxImageSize {
		return "", domain.ErrImageTooLarge
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", domain.ErrNotAnImage
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("event-%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: create asset: %w", err)
	}
	defer dst.Close()

	// The declared size was checked above; the LimitReader bounds a client
	// lying about it.
	if _, err := io.Copy(dst, io.LimitReader(src, MaxImageSize+1)); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("storage: write asset: %w", err)
	}

	return path.Join(publicPrefix, name), nil
}

// Remove deletes the asset behind a public reference. Only the base name is
// used, so a crafted reference cannot escape the upload directory. Removing a
// reference whose file is already gone is not an error.
func (s *LocalStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	name := filepath.Base(ref)
	if name == "." || name == string(filepath.Separator) {
		return nil
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove asset: %w", err)
	}
	return nil
}

// Sweep deletes files in the upload directory that none of the given
// references point at, and returns how many were removed.
func (s *LocalStore) Sweep(referenced []string) (int, error) {
	keep := make(map[string]struct{}, len(referenced))
	for _, ref := range referenced {
		keep[filepath.Base(ref)] = struct{}{}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("storage: read upload dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("storage: remove orphan %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}
