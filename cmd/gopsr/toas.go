package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulsartiming/gopsr"
	"github.com/pulsartiming/gopsr/internal/parsetools"
	"github.com/pulsartiming/gopsr/tim"
)

func (a *app) toasCmd() *cobra.Command {
	var (
		skipBad bool
		origin  bool
	)
	cmd := &cobra.Command{
		Use:   "toas FILE...",
		Short: "Print the TOAs of tim files, includes expanded",
		Example: `  gopsr toas J1713+0747.tim
  gopsr toas --skip-bad --origin *.tim`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := gopsr.ReadTimFiles(cmd.Context(), args, a.options()...)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, toas := range all {
				for _, t := range toas {
					if skipBad && t.IsBad {
						continue
					}
					printTOA(w, t, origin)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipBad, "skip-bad", false, "omit TOAs marked bad")
	cmd.Flags().BoolVar(&origin, "origin", false, "prefix each TOA with the file and line it came from")
	return cmd
}

// printTOA writes t as one Tempo2 line with flags in sorted order.
func printTOA(w io.Writer, t tim.TOAInfo, origin bool) {
	var b strings.Builder
	if origin {
		b.WriteString(t.Origin.String())
		b.WriteString(": ")
	}
	if t.IsBad {
		b.WriteString("C ")
	}
	fmt.Fprintf(&b, "%s %s %s %s %s",
		t.File,
		parsetools.FormatFloat(t.Frequency),
		t.MJD,
		parsetools.FormatFloat(t.MJDError),
		t.SiteID)

	keys := make([]string, 0, len(t.Flags))
	for k := range t.Flags {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " -%s %s", k, t.Flags[k])
	}
	if t.Comment != "" {
		b.WriteString(" # ")
		b.WriteString(t.Comment)
	}
	fmt.Fprintln(w, b.String())
}
