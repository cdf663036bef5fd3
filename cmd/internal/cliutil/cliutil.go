// Package cliutil provides shared CLI utilities for gopsr command-line tools.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pulsartiming/gopsr"
)

// GetOutput opens the output file or returns stdout.
func GetOutput(outputFile string, stdout io.Writer) (io.Writer, func() error, error) {
	if outputFile == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// PrintError writes a formatted error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}

// ExpandPaths replaces every directory argument with the par and tim files
// found below it, in sorted order. File arguments are kept as given.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		src, err := gopsr.DirTree(p)
		if err != nil {
			return nil, err
		}
		names, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			files = append(files, filepath.Join(p, name))
		}
	}
	return files, nil
}
