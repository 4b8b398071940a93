// Package ipd decodes BlackBerry IPD backup files into an in-memory model.
//
// An IPD file holds a set of named databases. Each database holds an ordered
// sequence of records and each record an ordered sequence of typed fields.
// The package decodes the binary container only; what a field's bytes mean is
// left to the caller (see the interp package).
//
// # File Format
//
// The file is read in a single pass:
//
//	[Prologue(38)][Version(1)][DatabaseCount(2, BE)][Reserved(1)]
//	[NameTable: DatabaseCount x ([Length(2, LE)][Name][NUL])]
//	[Records: ([DatabaseRef(2, LE)][RecordLength(4, LE)][Payload])...]
//
// The database count is big-endian; every other multi-byte integer in the
// file is little-endian. The record stream ends at end of file or at a
// database reference of 0xFFFF, whichever comes first.
//
// A record payload starts with a 7 byte sub-header followed by the fields:
//
//	[Version(1)][Handle(2, LE)][ID(4, LE)][Fields...]
//
// and each field is:
//
//	[Length(2, LE)][Type(1)][Data(Length)]
//
// The fields must consume the payload exactly.
//
// # Usage
//
//	f, err := ipd.Open("backup.ipd")
//	if err != nil {
//	    return err
//	}
//
//	if !f.Has("Handheld Agent") {
//	    return nil
//	}
//
//	db, _ := f.Database("Handheld Agent")
//	for _, rec := range db.Records() {
//	    if fld, ok := rec.FirstOfType(100); ok {
//	        fmt.Println(rec.ID(), fld.Data)
//	    }
//	}
//
// # Error Handling
//
// Decoding either produces a complete File or fails. Failures are reported as
// *DecodeError values carrying the stage and absolute byte offset of the read
// that failed, and match ErrTruncated or ErrMalformed with errors.Is. Lookups
// of undeclared databases return errors matching ErrNotFound.
//
// # Thread Safety
//
// A decoded File is never modified after Decode returns and may be shared
// between goroutines. Field data slices reference the decoded buffer and must
// not be modified by callers.
package ipd
