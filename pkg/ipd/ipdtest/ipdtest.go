// Package ipdtest builds synthetic IPD backups for tests.
package ipdtest

import (
	"bytes"
	"encoding/binary"

	"github.com/ssargent/ipd/pkg/ipd"
)

// Prologue is the banner real backups start with.
const Prologue = "Inter@ctive Pager Backup/Restore File\n"

// Builder assembles an IPD file in memory. Names are written in the order
// given, so the first name has reference 0.
type Builder struct {
	buf bytes.Buffer
}

// New starts a file with the given version and database names.
func New(version uint8, names ...string) *Builder {
	b := &Builder{}
	b.buf.WriteString(Prologue)
	b.buf.WriteByte(version)
	_ = binary.Write(&b.buf, binary.BigEndian, int16(len(names)))
	b.buf.WriteByte(0)
	for _, name := range names {
		_ = binary.Write(&b.buf, binary.LittleEndian, uint16(len(name)+1))
		b.buf.WriteString(name)
		b.buf.WriteByte(0)
	}
	return b
}

// Record appends a record owned by database ref, written with the given
// per-record format version.
func (b *Builder) Record(ref uint16, version uint8, handle uint16, id uint32, fields ...ipd.Field) *Builder {
	var payload bytes.Buffer
	payload.WriteByte(version)
	_ = binary.Write(&payload, binary.LittleEndian, handle)
	_ = binary.Write(&payload, binary.LittleEndian, id)
	for _, f := range fields {
		_ = binary.Write(&payload, binary.LittleEndian, uint16(len(f.Data)))
		payload.WriteByte(f.Type)
		payload.Write(f.Data)
	}

	_ = binary.Write(&b.buf, binary.LittleEndian, ref)
	_ = binary.Write(&b.buf, binary.LittleEndian, uint32(payload.Len()))
	b.buf.Write(payload.Bytes())
	return b
}

// Bytes returns a copy of the encoded file.
func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// Text returns a NUL-terminated string field.
func Text(typ uint8, s string) ipd.Field {
	return ipd.Field{Type: typ, Data: append([]byte(s), 0)}
}

// Agent returns a small backup with a "Handheld Agent" database of three
// applications and an empty "Memos" database.
func Agent() []byte {
	return New(2, "Handheld Agent", "Memos").
		Record(0, 0, 1, 0x101, ipd.Field{Type: 100, Data: []byte{1}}, Text(2, "Messenger"), Text(3, "4.2")).
		Record(0, 0, 2, 0x102, ipd.Field{Type: 100, Data: []byte{2}}, Text(2, "Browser")).
		Record(0, 0, 3, 0x103, ipd.Field{Type: 100, Data: []byte{5}}, Text(2, "Clock")).
		Bytes()
}
