package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulsartiming/gopsr"
	"github.com/pulsartiming/gopsr/cmd/internal/cliutil"
	"github.com/pulsartiming/gopsr/psrerr"
)

type problem struct {
	File    string `json:"file" yaml:"file" toml:"file"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
	Kind    string `json:"kind" yaml:"kind" toml:"kind"`
	Message string `json:"message" yaml:"message" toml:"message"`
}

type lintResult struct {
	Files    int       `json:"files" yaml:"files" toml:"files"`
	Problems []problem `json:"problems" yaml:"problems" toml:"problems"`
}

func (a *app) lintCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "lint PATH...",
		Short: "Check par and tim files for problems",
		Long: `Check par and tim files for problems.

Directories are searched recursively for .par and .tim files. Tim files are
read together with every file they INCLUDE. The exit status is 1 when any
problem is found.`,
		Example: `  gopsr lint J1713+0747.par J1713+0747.tim
  gopsr lint --format json timing/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.outputFormat(format, "text", "json", "yaml", "toml")
			if err != nil {
				return err
			}
			files, err := cliutil.ExpandPaths(args)
			if err != nil {
				return err
			}

			result := a.runLint(cmd.Context(), files)
			if out == "text" {
				printLintText(cmd.OutOrStdout(), result)
			} else if err := encode(cmd.OutOrStdout(), out, result); err != nil {
				return fmt.Errorf("output encoding failed: %w", err)
			}
			if len(result.Problems) > 0 {
				return errProblems
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json, yaml, toml")
	return cmd
}

func (a *app) runLint(ctx context.Context, files []string) lintResult {
	result := lintResult{Files: len(files), Problems: []problem{}}
	for _, name := range files {
		result.Problems = append(result.Problems, problemsOf(name, a.lintFile(ctx, name))...)
	}
	return result
}

func (a *app) lintFile(ctx context.Context, name string, extra ...gopsr.Option) error {
	opts := append(a.options(), extra...)
	switch fileKind(name) {
	case "par":
		_, err := gopsr.ReadParFile(name, opts...)
		return err
	case "tim":
		_, err := gopsr.ReadTimFile(ctx, name, opts...)
		return err
	}
	return fmt.Errorf("unknown file type %q (want .par or .tim)", filepath.Ext(name))
}

// problemsOf flattens joined errors into one problem each, located at the
// error's file context when it has one.
func problemsOf(name string, err error) []problem {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []problem
		for _, e := range joined.Unwrap() {
			out = append(out, problemsOf(name, e)...)
		}
		return out
	}

	p := problem{File: name, Kind: psrerr.KindOf(err).String(), Message: err.Error()}
	var pe *psrerr.Error
	if errors.As(err, &pe) && pe.Context != nil {
		p.File = pe.Context.File
		p.Line = pe.Context.Line
		p.Message = strings.TrimPrefix(p.Message, pe.Context.String()+": ")
	}
	return []problem{p}
}

func printLintText(w io.Writer, r lintResult) {
	for _, p := range r.Problems {
		loc := p.File
		if p.Line > 0 {
			loc = fmt.Sprintf("%s:%d", p.File, p.Line)
		}
		fmt.Fprintf(w, "%s: %s: %s\n", loc, p.Kind, p.Message)
	}
	if len(r.Problems) == 0 {
		fmt.Fprintf(w, "%d file(s) clean\n", r.Files)
		return
	}
	fmt.Fprintf(w, "%d problem(s) in %d file(s)\n", len(r.Problems), r.Files)
}
