// Package photostore keeps reference photos on disk, one directory per
// identity, files numbered 1.jpg, 2.jpg, … in registration order. The
// directory name is the identity name; the browser-side recognizer loads
// labeled images from here.
package photostore

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store writes and removes per-identity photo directories under a root.
type Store struct {
	root string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Save writes the images for name as <root>/<name>/1.jpg … in order.
func (s *Store) Save(name string, images [][]byte) error {
	dir := filepath.Join(s.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create photo dir for %q: %w", name, err)
	}
	for i, img := range images {
		path := filepath.Join(dir, fmt.Sprintf("%d.jpg", i+1))
		if err := os.WriteFile(path, img, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// Remove deletes the identity's photo directory recursively. Removing a
// directory that does not exist is not an error.
func (s *Store) Remove(name string) error {
	return os.RemoveAll(filepath.Join(s.root, name))
}

// DecodeImage decodes a base64 image payload. Data-URL prefixes
// ("data:image/jpeg;base64,…") are stripped; bare base64 is accepted too.
func DecodeImage(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:") {
		idx := strings.Index(data, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		data = data[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return decoded, nil
}
