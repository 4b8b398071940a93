package ipd

import (
	"bytes"
	"fmt"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field is a typed chunk of raw data within a record.
type Field struct {
	Type uint8
	Data []byte
}

func (f Field) clone() Field {
	return Field{Type: f.Type, Data: bytes.Clone(f.Data)}
}

func (f Field) String() string {
	return fmt.Sprintf("type=%d len=%d", f.Type, len(f.Data))
}

// Record is one entry within a database. A decoded record is never modified;
// field data handed out by its accessors is a private copy.
type Record struct {
	version uint8
	handle  uint16
	id      uint32
	fields  []Field
}

// Version returns the per-record format version.
func (r *Record) Version() uint8 {
	return r.version
}

// Handle returns the record handle.
func (r *Record) Handle() uint16 {
	return r.handle
}

// ID returns the record id. Ids are not necessarily unique.
func (r *Record) ID() uint32 {
	return r.id
}

// Fields returns the record's fields in file order.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.clone()
	}
	return out
}

// Len returns the number of fields in the record.
func (r *Record) Len() int {
	return len(r.fields)
}

// Field returns the i'th field.
func (r *Record) Field(i int) Field {
	return r.fields[i].clone()
}

// FirstOfType returns the first field with the given type code.
func (r *Record) FirstOfType(typ uint8) (Field, bool) {
	for _, f := range r.fields {
		if f.Type == typ {
			return f.clone(), true
		}
	}
	return Field{}, false
}

// OfType returns every field with the given type code, in file order.
func (r *Record) OfType(typ uint8) []Field {
	var out []Field
	for _, f := range r.fields {
		if f.Type == typ {
			out = append(out, f.clone())
		}
	}
	return out
}

func (r *Record) String() string {
	return fmt.Sprintf("record id=%d handle=%d version=%d fields=%d", r.id, r.handle, r.version, len(r.fields))
}

// Database is a named partition of records.
type Database struct {
	name    string
	index   int
	records []*Record
}

// Name returns the database name as declared in the name table.
func (d *Database) Name() string {
	return d.name
}

// Index returns the database's position in the name table.
func (d *Database) Index() int {
	return d.index
}

// Len returns the number of records in the database.
func (d *Database) Len() int {
	return len(d.records)
}

// Records returns the records in file arrival order.
func (d *Database) Records() []*Record {
	return slices.Clone(d.records)
}

// Record returns the i'th record.
func (d *Database) Record(i int) *Record {
	return d.records[i]
}

// File is a decoded IPD file.
type File struct {
	version uint8

	dbs   *orderedmap.OrderedMap[string, *Database]
	order []*Database // database reference -> database
}

func newFile(version uint8, names []string) *File {
	f := &File{
		version: version,
		dbs:     orderedmap.New[string, *Database](),
		order:   make([]*Database, len(names)),
	}
	for i, name := range names {
		db := &Database{name: name, index: i}
		f.dbs.Set(name, db)
		f.order[i] = db
	}
	return f
}

func (f *File) at(ref int) *Database {
	if ref < 0 || ref >= len(f.order) {
		return nil
	}
	return f.order[ref]
}

// Version returns the global database version from the header.
func (f *File) Version() uint8 {
	return f.version
}

// Has reports whether a database with the given name was declared.
func (f *File) Has(name string) bool {
	_, ok := f.dbs.Get(name)
	return ok
}

// Database returns the database with the given name.
func (f *File) Database(name string) (*Database, error) {
	db, ok := f.dbs.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return db, nil
}

// DatabaseAt returns the database at the given name table position.
func (f *File) DatabaseAt(i int) (*Database, error) {
	db := f.at(i)
	if db == nil {
		return nil, fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	return db, nil
}

// Databases returns all databases in name table order.
func (f *File) Databases() []*Database {
	out := make([]*Database, 0, f.dbs.Len())
	for pair := f.dbs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Names returns the database names in name table order.
func (f *File) Names() []string {
	out := make([]string, 0, f.dbs.Len())
	for pair := f.dbs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Len returns the number of declared databases.
func (f *File) Len() int {
	return f.dbs.Len()
}

// RecordCount returns the total number of records across all databases.
func (f *File) RecordCount() int {
	n := 0
	for _, db := range f.order {
		n += len(db.records)
	}
	return n
}
