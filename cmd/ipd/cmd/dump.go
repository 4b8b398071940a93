/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/ipd/pkg/interp"
	"github.com/ssargent/ipd/pkg/ipd"
)

func newDumpCmd() *cobra.Command {
	dumpCmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the records of a backup",
		Long: `Print every record of an IPD backup, one row per field. Field data is
shown through the interpreters configured for its database and type code;
fields without an interpreter are shown as hex.

Examples:
  ipd dump backup.ipd
  ipd dump backup.ipd --database "Handheld Agent" --format json
  ipd dump backup.ipd --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _ := cmd.Flags().GetString("database")
			format, _ := cmd.Flags().GetString("format")
			raw, _ := cmd.Flags().GetBool("raw")
			if err := checkFormat(format); err != nil {
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

			dbs := f.Databases()
			if database != "" {
				db, err := f.Database(database)
				if err != nil {
					return err
				}
				dbs = []*ipd.Database{db}
			}

			out := make([]databaseRecords, 0, len(dbs))
			for _, db := range dbs {
				out = append(out, viewRecords(registry, db.Name(), db.Records(), raw))
			}
			return outputRecords(cmd.OutOrStdout(), format, out)
		},
	}

	dumpCmd.Flags().StringP("database", "d", "", "Only print this database")
	dumpCmd.Flags().StringP("format", "f", formatTable, "Output format: table or json")
	dumpCmd.Flags().Bool("raw", false, "Show field data as hex without interpreters")
	return dumpCmd
}

func viewRecords(registry *interp.Registry, database string, records []*ipd.Record, raw bool) databaseRecords {
	views := make([]interp.RecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, registry.View(database, rec, raw))
	}
	return databaseRecords{Database: database, Records: views}
}
