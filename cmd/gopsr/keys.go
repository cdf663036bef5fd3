package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulsartiming/gopsr/par"
)

func (a *app) keysCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the known par-file keys",
		Long: `List the known par-file keys with their aliases and descriptions.

With --check, only report keys that resolve to more than one entry and exit
non-zero if there are any.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if check {
				collisions := par.AliasCollisions()
				for _, c := range collisions {
					fmt.Fprintf(w, "%s: %s\n", c.Key, strings.Join(c.Entries, ", "))
				}
				if len(collisions) > 0 {
					return errProblems
				}
				fmt.Fprintln(w, "no alias collisions")
				return nil
			}

			for _, t := range par.Tables() {
				fmt.Fprintf(w, "[%s]\n", t.Kind)
				for _, e := range t.Entries {
					names := e.Name
					if len(e.Aliases) > 0 {
						names += " (" + strings.Join(e.Aliases, ", ") + ")"
					}
					fmt.Fprintf(w, "  %-28s %s\n", names, e.Description)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "report alias collisions only")
	return cmd
}
