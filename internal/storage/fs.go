package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Ankit1478/LLM-Internals/internal/checksum"
	"github.com/Ankit1478/LLM-Internals/internal/models"
)

// FS implements Provider on top of an fs.FS.
type FS struct {
	fsys fs.FS
	root string
}

// NewFS creates a provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{fsys: os.DirFS(abs), root: abs}, nil
}

// NewEmbedded wraps an in-binary file system. name is used by Root.
func NewEmbedded(fsys fs.FS, name string) *FS {
	return &FS{fsys: fsys, root: name}
}

// Root returns the directory path or embedded name of the provider.
func (f *FS) Root() string {
	return f.root
}

// safePath normalises a relative slash path and rejects anything that
// would escape the root.
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" || rel == "." {
		return ".", nil
	}
	rel = filepath.ToSlash(rel)
	if path.IsAbs(rel) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	cleaned := path.Clean(rel)
	if !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("storage: path escapes content root: %s", rel)
	}
	return cleaned, nil
}

// List walks dir and returns metadata for every .md file.
func (f *FS) List(dir string) ([]models.FileMetadata, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	var out []models.FileMetadata
	err = fs.WalkDir(f.fsys, base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != base && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		data, err := fs.ReadFile(f.fsys, p)
		if err != nil {
			return err
		}
		out = append(out, models.FileMetadata{
			Path:     p,
			Checksum: checksum.Sum(data),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

// Read returns the raw bytes of a content file.
func (f *FS) Read(p string) ([]byte, error) {
	clean, err := f.safePath(p)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(f.fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", p, err)
	}
	return data, nil
}
