/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Store backups in the archive",
		Long: `Decode each backup and store it in the archive. Files that fail to decode
are reported and skipped; the others are still imported. Importing a file
whose content is already archived prints the existing snapshot id.

Example:
  ipd import backup-2009-01.ipd backup-2009-02.ipd`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			store, err := a.openArchive()
			if err != nil {
				return err
			}
			defer store.Close()

			var errs []error
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					errs = append(errs, err)
					continue
				}

				snap, err := store.Import(path, data)
				if err != nil {
					errs = append(errs, err)
					continue
				}

				status := "imported"
				if snap.Existing {
					status = "exists"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", status, snap.ID, path)
			}

			if len(errs) > 0 {
				return fmt.Errorf("%d of %d files failed: %w", len(errs), len(args), errors.Join(errs...))
			}
			return nil
		},
	}
}
