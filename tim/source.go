package tim

import (
	"io"
	"os"
	"path/filepath"
)

// Source opens tim files and resolves INCLUDE targets.
type Source interface {
	// Open opens the named file.
	Open(name string) (io.ReadCloser, error)

	// Resolve returns the name of target as included from the file from.
	// Relative targets are relative to the directory holding from.
	Resolve(from, target string) string
}

// osSource reads from the local file system.
type osSource struct{}

func (osSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (osSource) Resolve(from, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(filepath.Dir(from), target)
}
