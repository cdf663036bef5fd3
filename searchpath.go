package gopsr

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pulsartiming/gopsr/internal/types"
)

// WithSearchPath adds directories consulted, in order, for top-level names
// the configured source cannot open. A file found there is read from that
// directory, and its INCLUDE targets resolve against it. Directories that do
// not exist are skipped.
func WithSearchPath(dirs ...string) Option {
	return func(c *config) { c.searchPath = append(c.searchPath, dirs...) }
}

// SplitSearchPath splits a list of directories joined by the OS path list
// separator, as in a PATH-style environment variable. Empty and repeated
// entries are dropped.
func SplitSearchPath(s string) []string {
	if s == "" {
		return nil
	}
	var dirs []string
	for _, p := range filepath.SplitList(s) {
		if p != "" {
			dirs = append(dirs, p)
		}
	}
	return dedup(dirs)
}

// locate picks where the top-level file name is read from. A relative name
// the configured source does not have is looked up in the search
// directories and rewritten to the first match's path, so its INCLUDE
// targets resolve beside it rather than against the working directory.
func (c config) locate(name string) (Source, string) {
	if len(c.searchDirs) == 0 || filepath.IsAbs(name) {
		return c.source, name
	}
	f, err := c.source.Open(name)
	if err == nil {
		f.Close()
		return c.source, name
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return c.source, name
	}
	for _, d := range c.searchDirs {
		p := filepath.Join(d, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			logger := c.sourceLogger()
			logger.Log(slog.LevelDebug, "found in search path",
				slog.String("file", name), slog.String("path", p))
			return OS(), p
		}
	}
	return c.source, name
}

func (c config) sourceLogger() types.Logger {
	return types.Logger{L: componentLogger(c.logger, "source")}
}

func dedup(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var result []string
	for _, p := range paths {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}

func filterExistingDirs(paths []string, logger types.Logger) []string {
	var result []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			result = append(result, p)
			continue
		}
		logger.Log(slog.LevelDebug, "skipping search directory", slog.String("dir", p))
	}
	return result
}
