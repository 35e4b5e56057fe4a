// Package storage defines the note file-system abstraction.
package storage

import "github.com/starford/roamshare/internal/models"

// Provider is the interface for note file operations. All paths are relative
// to the provider root.
type Provider interface {
	// Root returns the absolute directory the provider is rooted at.
	Root() string
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Size returns the length in bytes of the file at path.
	Size(path string) (int64, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
}
