/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

func newDatabasesCmd() *cobra.Command {
	databasesCmd := &cobra.Command{
		Use:   "databases <file>",
		Short: "List the databases in a backup",
		Long: `List the databases of an IPD backup in declaration order with their
record counts.

Example:
  ipd databases backup.ipd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format); err != nil {
				return err
			}

			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			f, err := a.decoder().Open(args[0])
			if err != nil {
				return err
			}
			return outputDatabases(cmd.OutOrStdout(), format, f)
		},
	}

	databasesCmd.Flags().StringP("format", "f", formatTable, "Output format: table or json")
	return databasesCmd
}
