package gopsr

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pulsartiming/gopsr/tim"
)

// DefaultExtensions are the file extensions listed by directory sources.
var DefaultExtensions = []string{".par", ".tim"}

// Source opens par and tim files, resolves INCLUDE targets and lists the
// files it holds. Names passed to Open are the names ListFiles returns, or
// names produced by Resolve.
type Source interface {
	tim.Source

	// ListFiles returns the names of every par or tim file known to this
	// source, sorted.
	ListFiles() ([]string, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{
		extensions: DefaultExtensions,
	}
}

// WithExtensions sets the file extensions to list for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// --- OS Source (local file system, no root) ---

type osSource struct{}

// OS returns a Source reading names as local paths. It lists no files.
func OS() Source {
	return osSource{}
}

func (osSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (osSource) Resolve(from, target string) string {
	return resolveLocal(from, target)
}

func (osSource) ListFiles() ([]string, error) {
	return nil, nil
}

// --- Dir and DirTree Sources (rooted directory) ---

type dirSource struct {
	root      string
	recursive bool
	config    sourceConfig
}

// Dir creates a Source rooted at a single directory. Relative names are
// opened below root; ListFiles does not descend into subdirectories.
func Dir(root string, opts ...SourceOption) (Source, error) {
	return newDirSource(root, false, opts)
}

// MustDir is like Dir but panics on error.
func MustDir(root string, opts ...SourceOption) Source {
	src, err := Dir(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

// DirTree is like Dir but ListFiles walks the whole tree below root.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	return newDirSource(root, true, opts)
}

// MustDirTree is like DirTree but panics on error.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func newDirSource(root string, recursive bool, opts []SourceOption) (Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: root, Err: os.ErrInvalid}
	}
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &dirSource{root: root, recursive: recursive, config: cfg}, nil
}

func (s *dirSource) Open(name string) (io.ReadCloser, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(s.root, name)
	}
	return os.Open(name)
}

func (s *dirSource) Resolve(from, target string) string {
	return resolveLocal(from, target)
}

func (s *dirSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string

	if !s.recursive {
		entries, err := os.ReadDir(s.root)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && hasValidExtension(entry.Name(), extSet) {
				files = append(files, entry.Name())
			}
		}
		return files, nil
	}

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasValidExtension(p, extSet) {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// --- FS Source (for embed.FS, testing, http filesystems) ---

type fsSource struct {
	fsys   fs.FS
	config sourceConfig
}

// FS creates a Source backed by an fs.FS (e.g., embed.FS). Names are
// slash-separated and relative to the root of fsys.
func FS(fsys fs.FS, opts ...SourceOption) Source {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &fsSource{fsys: fsys, config: cfg}
}

func (s *fsSource) Open(name string) (io.ReadCloser, error) {
	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *fsSource) Resolve(from, target string) string {
	if path.IsAbs(target) {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(from), target)
}

func (s *fsSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && hasValidExtension(p, extSet) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source
}

// Multi combines multiple sources into one. Open tries each source in
// order and returns the first file found. Resolve uses the first source.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) Open(name string) (io.ReadCloser, error) {
	for _, src := range s.sources {
		r, err := src.Open(name)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (s *multiSource) Resolve(from, target string) string {
	if len(s.sources) == 0 {
		return resolveLocal(from, target)
	}
	return s.sources[0].Resolve(from, target)
}

func (s *multiSource) ListFiles() ([]string, error) {
	var files []string
	for _, src := range s.sources {
		f, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		files = append(files, f...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// --- Helpers ---

func resolveLocal(from, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(filepath.Dir(from), target)
}

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(p string, extSet map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(p))
	_, ok := extSet[ext]
	return ok
}
