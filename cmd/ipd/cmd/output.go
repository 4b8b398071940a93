/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ssargent/ipd/pkg/archive"
	"github.com/ssargent/ipd/pkg/interp"
	"github.com/ssargent/ipd/pkg/ipd"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(format string) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("invalid format %q (want table or json)", format)
	}
	return nil
}

// databaseRecords is one database's records as shown by dump and query
type databaseRecords struct {
	Database string              `json:"database"`
	Records  []interp.RecordView `json:"records"`
}

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputDatabases displays the databases of a file
func outputDatabases(w io.Writer, format string, f *ipd.File) error {
	if format == formatJSON {
		type database struct {
			Name    string `json:"name"`
			Index   int    `json:"index"`
			Records int    `json:"records"`
		}
		out := make([]database, 0, f.Len())
		for _, db := range f.Databases() {
			out = append(out, database{Name: db.Name(), Index: db.Index(), Records: db.Len()})
		}
		return outputJSON(w, out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "INDEX\tNAME\tRECORDS")
	for _, db := range f.Databases() {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", db.Index(), db.Name(), db.Len())
	}
	return nil
}

// outputRecords displays records with one row per field
func outputRecords(w io.Writer, format string, dbs []databaseRecords) error {
	if format == formatJSON {
		return outputJSON(w, dbs)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "DATABASE\tID\tHANDLE\tTYPE\tLEN\tINTERPRETER\tVALUE")
	for _, db := range dbs {
		for _, rec := range db.Records {
			if len(rec.Fields) == 0 {
				fmt.Fprintf(tw, "%s\t%d\t%d\t-\t-\t-\t-\n", db.Database, rec.ID, rec.Handle)
				continue
			}
			for _, field := range rec.Fields {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
					db.Database, rec.ID, rec.Handle, field.Type, field.Length, field.Interpreter, formatValue(field))
			}
		}
	}
	return nil
}

// outputSnapshots displays archived snapshots
func outputSnapshots(w io.Writer, format string, snaps []*archive.Snapshot) error {
	if format == formatJSON {
		return outputJSON(w, snaps)
	}

	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tIMPORTED\tSIZE\tDATABASES\tRECORDS\tSOURCE")
	for _, s := range snaps {
		records := 0
		for _, db := range s.Databases {
			records += db.Records
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			s.ID, s.ImportedAt.Format(time.RFC3339), s.Size, len(s.Databases), records, s.Source)
	}
	return nil
}

// formatValue renders an interpreted value on a single line
func formatValue(v interp.Value) string {
	var s string
	switch val := v.Value.(type) {
	case string:
		if v.Interpreter == "text" {
			s = strconv.Quote(val)
		} else {
			s = val
		}
	default:
		s = fmt.Sprint(val)
	}
	if v.Error != "" {
		s += " (" + v.Error + ")"
	}
	return s
}
