package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulsartiming/gopsr"
	"github.com/pulsartiming/gopsr/cmd/internal/cliutil"
)

func (a *app) fmtCmd() *cobra.Command {
	var (
		output  string
		inPlace bool
	)
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Rewrite a par file in canonical form",
		Long: `Rewrite a par file in canonical form.

Aliases are replaced by canonical names, keys are padded to one column and
parameters are grouped by kind. The file must pass every check.`,
		Example: `  gopsr fmt J1713+0747.par
  gopsr fmt -w J1713+0747.par`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if fileKind(name) != "par" {
				return fmt.Errorf("%s is not a par file", name)
			}
			if inPlace && output != "" {
				return fmt.Errorf("-w and -o are mutually exclusive")
			}

			pf, err := gopsr.ReadParFile(name, a.options()...)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := gopsr.WritePar(&buf, pf); err != nil {
				return err
			}
			if inPlace {
				return os.WriteFile(name, buf.Bytes(), 0o644)
			}

			w, done, err := cliutil.GetOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if _, err := w.Write(buf.Bytes()); err != nil {
				_ = done()
				return err
			}
			return done()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "overwrite the input file")
	return cmd
}
