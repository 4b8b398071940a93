/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/ipd/pkg/query"
)

func newQueryCmd() *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query <file>",
		Short: "Print records matching a field predicate",
		Long: `Print the records of one database whose first field of the given type
satisfies a comparison. Integer fields compare numerically, everything else
compares as text.

Examples:
  ipd query backup.ipd --database "Handheld Agent" --type 2 --value Messenger
  ipd query backup.ipd --database "Handheld Agent" --type 100 --op ">" --value 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _ := cmd.Flags().GetString("database")
			typ, _ := cmd.Flags().GetString("type")
			op, _ := cmd.Flags().GetString("op")
			value, _ := cmd.Flags().GetString("value")
			format, _ := cmd.Flags().GetString("format")
			raw, _ := cmd.Flags().GetBool("raw")
			if err := checkFormat(format); err != nil {
				return err
			}

			q, err := query.ParseFieldQuery(typ, op, value)
			if err != nil {
				return err
			}

			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			registry, err := a.registry()
			if err != nil {
				return err
			}

			f, err := a.decoder().Open(args[0])
			if err != nil {
				return err
			}

			it, err := query.NewFileEngine(f, registry).ExecuteQuery(cmd.Context(), database, q)
			if err != nil {
				return err
			}

			out := []databaseRecords{viewRecords(registry, database, query.Collect(it), raw)}
			return outputRecords(cmd.OutOrStdout(), format, out)
		},
	}

	queryCmd.Flags().StringP("database", "d", "", "Database to search (required)")
	queryCmd.Flags().StringP("type", "t", "", "Field type code, decimal or 0x hex (required)")
	queryCmd.Flags().String("op", query.OpEqual, "Operator: =, !=, contains, <, >, <=, >=")
	queryCmd.Flags().String("value", "", "Value to compare against")
	queryCmd.Flags().StringP("format", "f", formatTable, "Output format: table or json")
	queryCmd.Flags().Bool("raw", false, "Show field data as hex without interpreters")
	_ = queryCmd.MarkFlagRequired("database")
	_ = queryCmd.MarkFlagRequired("type")
	return queryCmd
}
