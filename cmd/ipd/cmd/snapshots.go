/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapshotsCmd() *cobra.Command {
	snapshotsCmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List archived snapshots",
		Long: `List the snapshots in the archive, oldest first.

Examples:
  ipd snapshots
  ipd snapshots --format json
  ipd snapshots rm 2Bv8zXkq3b1Yx5Gx6p0hUo0Rbi4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format); err != nil {
				return err
			}

			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			store, err := a.openArchive()
			if err != nil {
				return err
			}
			defer store.Close()

			snaps, err := store.List()
			if err != nil {
				return err
			}
			return outputSnapshots(cmd.OutOrStdout(), format, snaps)
		},
	}

	snapshotsCmd.Flags().StringP("format", "f", formatTable, "Output format: table or json")
	snapshotsCmd.AddCommand(newSnapshotsRmCmd())
	return snapshotsCmd
}

func newSnapshotsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete archived snapshots",
		Args:    cobra.MinimumNArgs(1),
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

			for _, id := range args {
				if err := store.Delete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted\t%s\n", id)
			}
			return nil
		},
	}
}
