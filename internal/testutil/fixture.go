package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MinimalPar is the smallest parameter file that passes every document check.
const MinimalPar = `PSR    J0000-9999
RA     23:59:59.999
DEC    45:59:59.999
PEPOCH 55000
F0     9001
DM     1001.1
`

// MinimalTOA is a single valid Tempo2 TOA line.
const MinimalTOA = "dir/file.ext 999.999 55000.97531 99.11 tele-id"

// ParWithout returns MinimalPar with every line starting with key removed.
func ParWithout(key string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(MinimalPar, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 && fields[0] == key {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// WriteFiles writes each name/content pair below dir, creating parent
// directories, and returns dir.
func WriteFiles(t testing.TB, dir string, files map[string]string) string {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return dir
}

// Lines joins lines with newlines and adds a trailing newline.
func Lines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
