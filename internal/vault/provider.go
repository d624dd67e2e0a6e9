// Package vault defines the document-store abstraction over a directory of
// plain-text notes.
package vault

import "time"

// NoteMeta is a lightweight representation returned by list operations.
type NoteMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for vault file operations. All paths are
// relative to the vault root and use forward slashes.
type Provider interface {
	// Exists reports whether a file exists at path.
	Exists(path string) bool
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the whole document at path.
	Write(path string, content []byte) error
	// Create writes a new document at path and fails (wrapping fs.ErrExist)
	// if one is already there.
	Create(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath and notifies rename observers.
	Move(oldPath, newPath string) error
	// List returns metadata for every .md file under dir.
	List(dir string) ([]NoteMeta, error)
	// OnRename registers fn to run after every successful Move.
	OnRename(fn func(oldPath, newPath string))
}
