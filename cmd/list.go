package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available template sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifests, err := a.catalog().List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTOOLKIT\tDESCRIPTION")
			for _, m := range manifests {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.Dir, m.Toolkit, m.Description)
			}
			return w.Flush()
		},
	}
}
