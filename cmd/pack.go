package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shireesh.com/framegen/internal/catalog"
	"shireesh.com/framegen/internal/compressor"
)

func newPackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pack <dir> <out.zip>",
		Short: "Pack a template set directory into a zip archive usable with --from",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := catalog.LoadDir(args[0])
			if err != nil {
				return err
			}
			if err := compressor.ZipDir(args[0], args[1]); err != nil {
				return fmt.Errorf("failed to pack %s: %w", args[0], err)
			}
			a.logger.Debug("packed template set", "set", set.Manifest.Name, "archive", args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "Packed %s (%d files) into %s\n", set.Manifest.Name, len(set.Templates.Files), args[1])
			return nil
		},
	}
}
