// Package storage defines the preset tree file-system abstraction.
package storage

// Provider is the interface for reading the preset tree.
type Provider interface {
	// Dirs returns the immediate child directories of the root, relative to it.
	Dirs() ([]string, error)
	// Files returns the regular files directly inside dir (relative to root).
	// Returned paths are relative to root.
	Files(dir string) ([]string, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
}
