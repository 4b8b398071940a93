package ipd

import "encoding/binary"

// RecordHeaderSize is the size of the version, handle and id that start every
// record payload.
const RecordHeaderSize = 7

// DecodeRecord decodes one record payload: the 7 byte sub-header followed by
// the field stream.
func DecodeRecord(payload []byte) (*Record, error) {
	return decodeRecord(payload, 0)
}

func decodeRecord(payload []byte, base int64) (*Record, error) {
	if len(payload) < RecordHeaderSize {
		return nil, malformed(StageRecord, base, "record payload of %d bytes is shorter than the %d byte header", len(payload), RecordHeaderSize)
	}

	fields, err := decodeFields(payload[RecordHeaderSize:], base+RecordHeaderSize)
	if err != nil {
		return nil, err
	}

	return &Record{
		version: payload[0],
		handle:  binary.LittleEndian.Uint16(payload[1:3]),
		id:      binary.LittleEndian.Uint32(payload[3:7]),
		fields:  fields,
	}, nil
}
