package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const recipeUploadDir = "uploads/recipe"

// LocalImageStore writes recipe images below Root and serves them under URL.
type LocalImageStore struct {
	Root string
	URL  string
}

// NewLocalImageStore returns a store rooted at root. url is the public prefix
// the router serves root under, e.g. "/media".
func NewLocalImageStore(root, url string) *LocalImageStore {
	return &LocalImageStore{Root: root, URL: strings.TrimRight(url, "/")}
}

// Save writes r to uploads/recipe/<name> and returns its public path.
func (s *LocalImageStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid image name %q", name)
	}

	dir := filepath.Join(s.Root, filepath.FromSlash(recipeUploadDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst := filepath.Join(dir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close image file: %w", err)
	}

	return path.Join(s.URL, recipeUploadDir, name), nil
}

// Delete removes the file behind a path previously returned by Save.
// Unknown or already-removed paths are ignored.
func (s *LocalImageStore) Delete(_ context.Context, p string) error {
	prefix := path.Join(s.URL, recipeUploadDir) + "/"
	if !strings.HasPrefix(p, prefix) {
		return nil
	}
	name := strings.TrimPrefix(p, prefix)
	if name == "" || name != path.Base(name) {
		return nil
	}

	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(recipeUploadDir), name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
