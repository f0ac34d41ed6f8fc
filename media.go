package decor

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaStore writes normalized uploads under a root directory and hands
// back media-relative paths (forward-slashed) for storage in the database
// and in API payloads.
type MediaStore struct {
	root string
}

func NewMediaStore(root string) *MediaStore {
	return &MediaStore{root: root}
}

// Save writes data under root/subdir, appending a counter to the filename
// if it is already taken. The write goes through a uuid-named temp file and
// a rename, so an interrupted save never leaves a partial media file behind.
// Returns the media-relative path, e.g. "products/den-go.jpg".
func (m *MediaStore) Save(subdir, filename string, data []byte) (string, error) {
	dir := filepath.Join(m.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	filename = uniqueName(dir, filename)

	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write media: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, filename)); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write media: %w", err)
	}
	return path.Join(subdir, filename), nil
}

// Remove deletes a previously saved file. A missing file is not an error;
// removal is used for cleanup after failed saves and for deletes.
func (m *MediaStore) Remove(rel string) {
	if rel == "" {
		return
	}
	_ = os.Remove(filepath.Join(m.root, filepath.FromSlash(rel)))
}

// Root returns the media root directory for static serving.
func (m *MediaStore) Root() string {
	return m.root
}

// uniqueName appends "-2", "-3", ... before the extension until the name is
// free in dir.
func uniqueName(dir, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	candidate := filename
	counter := 1
	for {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		counter++
		candidate = fmt.Sprintf("%s-%d%s", base, counter, ext)
	}
}
