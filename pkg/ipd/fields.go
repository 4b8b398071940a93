package ipd

import "bytes"

// FieldHeaderSize is the size of a field's length and type prefix.
const FieldHeaderSize = 3

// DecodeFields splits a record's field stream into fields.
// The stream must end exactly on a field boundary. The returned fields do not
// alias buf.
func DecodeFields(buf []byte) ([]Field, error) {
	return decodeFields(buf, 0)
}

func decodeFields(buf []byte, base int64) ([]Field, error) {
	c := newCursor(bytes.Clone(buf), base, StageField, ErrMalformed)

	var fields []Field
	for c.remaining() > 0 {
		length, err := c.u16LE("field length")
		if err != nil {
			return nil, err
		}
		typ, err := c.u8("field type")
		if err != nil {
			return nil, err
		}
		data, err := c.take(int(length), "field data")
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Type: typ, Data: data})
	}

	return fields, nil
}
