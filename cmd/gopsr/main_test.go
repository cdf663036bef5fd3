package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("os/signal.loop"))
}

func testdata(parts ...string) string {
	return filepath.Join(append([]string{"..", "..", "testdata"}, parts...)...)
}

// execute runs the command line and returns stdout, stderr and the exit code.
func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// syncBuffer is a bytes.Buffer safe for one writer and concurrent readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func copyFile(t *testing.T, src, dir string) string {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, filepath.Base(src))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return dst
}

func TestVersion(t *testing.T) {
	out, _, code := execute(t, "version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "gopsr "), out)
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, code := execute(t, "frobnicate")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestFileKind(t *testing.T) {
	tests := map[string]string{
		"a.par":     "par",
		"b/C.PAR":   "par",
		"x.tim":     "tim",
		"notes.txt": "",
		"noext":     "",
	}
	for name, want := range tests {
		assert.Equal(t, want, fileKind(name), name)
	}
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, code := execute(t, "-vv", "lint", testdata("tim", "asp", "ASP.tim"))
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "component=tim")
	assert.Contains(t, stderr, "parsed TOA")

	_, stderr, code = execute(t, "lint", testdata("tim", "asp", "ASP.tim"))
	assert.Equal(t, exitOK, code)
	assert.Empty(t, stderr)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "gopsr.yaml")
	err := os.WriteFile(cfg, []byte("output_format: json\nstrictness: permissive\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	par := filepath.Join(dir, "odd.par")
	data, err := os.ReadFile(testdata("par", "B0531+21.par"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(par, append(data, "WIBBLE 1\n"...), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, code := execute(t, "--config", cfg, "lint", par)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, `"files": 1`)

	// Flags beat the file.
	out, _, code = execute(t, "--config", cfg, "--strictness", "strict", "lint", "-f", "text", par)
	assert.Equal(t, exitError, code)
	assert.Contains(t, out, "unrecognised-key")
}

func TestConfigInvalid(t *testing.T) {
	_, stderr, code := execute(t, "--tim-format", "fortran", "lint", testdata("tim", "asp", "ASP.tim"))
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "format")
}
