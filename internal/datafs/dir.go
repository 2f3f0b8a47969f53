package datafs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Well-known file names inside the data directory.
const (
	DocumentFile = "database.json"
	SQLiteFile   = "edupulse.db"
)

var ErrInvalidPath = errors.New("invalid data path")

// Dir is the data directory holding the portal document or database.
type Dir struct {
	root string
}

// Open returns the data directory at root, creating it when missing.
func Open(root string) (Dir, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return Dir{}, ErrInvalidPath
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return Dir{}, fmt.Errorf("create data dir: %w", err)
	}
	return Dir{root: root}, nil
}

func (d Dir) Root() string {
	return d.root
}

// Path resolves name inside the directory and refuses names escaping it.
// Example: Path("database.json") -> /srv/data/database.json
func (d Dir) Path(name string) (string, error) {
	if d.root == "" {
		return "", ErrInvalidPath
	}
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	clean := filepath.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return filepath.Join(d.root, clean), nil
}
