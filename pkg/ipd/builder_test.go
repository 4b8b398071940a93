package ipd

import (
	"bytes"
	"encoding/binary"
)

// testPrologue is the banner real backups start with; it is exactly 38 bytes.
const testPrologue = "Inter@ctive Pager Backup/Restore File\n"

// ipdBuilder assembles synthetic IPD files for tests.
type ipdBuilder struct {
	buf bytes.Buffer
}

func newIPD(version uint8, names ...string) *ipdBuilder {
	b := &ipdBuilder{}
	b.buf.WriteString(testPrologue)
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

func (b *ipdBuilder) record(ref uint16, version uint8, handle uint16, id uint32, fields ...Field) *ipdBuilder {
	return b.rawRecord(ref, encodePayload(version, handle, id, fields...))
}

func (b *ipdBuilder) rawRecord(ref uint16, payload []byte) *ipdBuilder {
	_ = binary.Write(&b.buf, binary.LittleEndian, ref)
	_ = binary.Write(&b.buf, binary.LittleEndian, uint32(len(payload)))
	b.buf.Write(payload)
	return b
}

func (b *ipdBuilder) raw(p ...byte) *ipdBuilder {
	b.buf.Write(p)
	return b
}

func (b *ipdBuilder) bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

func encodePayload(version uint8, handle uint16, id uint32, fields ...Field) []byte {
	var buf bytes.Buffer
	buf.WriteByte(version)
	_ = binary.Write(&buf, binary.LittleEndian, handle)
	_ = binary.Write(&buf, binary.LittleEndian, id)
	buf.Write(encodeFields(fields...))
	return buf.Bytes()
}

func encodeFields(fields ...Field) []byte {
	var buf bytes.Buffer
	for _, f := range fields {
		_ = binary.Write(&buf, binary.LittleEndian, uint16(len(f.Data)))
		buf.WriteByte(f.Type)
		buf.Write(f.Data)
	}
	return buf.Bytes()
}
