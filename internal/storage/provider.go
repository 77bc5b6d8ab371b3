// Package storage defines the read-only content source abstraction.
package storage

import "github.com/Ankit1478/LLM-Internals/internal/models"

// Provider is the interface for content file access.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to the content root),
	// in lexical path order.
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the content root).
	Read(path string) ([]byte, error)
	// Root describes where the content lives, for logs and diagnostics.
	Root() string
}
