// Package assets stores uploaded article images on the local filesystem.
// Files are renamed to ULIDs on save so client-supplied names never touch
// the disk.
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressroomhq/pressroom/pkg/idx"
)

var (
	// ErrUnsupportedExtension is returned when an upload's extension is
	// not in the allow list.
	ErrUnsupportedExtension = errors.New("assets: unsupported file extension")

	// ErrInvalidName is returned for asset names that are not plain file
	// names.
	ErrInvalidName = errors.New("assets: invalid asset name")
)

// DefaultExtensions is the stock image allow list.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

type Store struct {
	dir     string
	allowed map[string]struct{}
}

// NewStore creates the upload directory if needed. A nil extensions slice
// falls back to DefaultExtensions.
func NewStore(dir string, extensions []string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	if extensions == nil {
		extensions = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	return &Store{dir: dir, allowed: allowed}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes an upload to disk under a fresh ULID name, keeping only the
// original extension. The stored name is returned.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := s.allowed[ext]; !ok {
		return "", ErrUnsupportedExtension
	}

	name := idx.New().String() + ext

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("write asset: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("close asset: %w", err)
	}

	return name, nil
}

// Delete removes a stored asset. A missing file is not an error.
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path resolves an asset name to its on-disk path, refusing anything that
// is not a bare file name.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Sweep removes stored files whose names are not in the referenced set and
// returns how many were removed. Subdirectories are left alone.
func (s *Store) Sweep(referenced map[string]struct{}) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := referenced[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
