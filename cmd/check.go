package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var vars []string

	cmd := &cobra.Command{
		Use:   "check <set|dir|zip>",
		Short: "Report tokens of a template set that would fail to render",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, err := parseVars(vars)
			if err != nil {
				return err
			}
			set, err := a.catalog().Resolve(args[0])
			if err != nil {
				return err
			}

			all := mergeVars(mergeVars(set.Manifest.Variables, a.cfg.Variables), extra)
			problems, err := a.renderer().Check(set.Templates, all)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintln(out, p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%s: %d problem(s) found", set.Manifest.Name, len(problems))
			}
			fmt.Fprintf(out, "%s: %d files OK\n", set.Manifest.Name, len(set.Templates.Files))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&vars, "var", nil, "extra token value as Name=value (repeatable)")
	return cmd
}
