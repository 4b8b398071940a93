package ipd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHeader(t *testing.T) {
	data := newIPD(2, "A", "B", "C").bytes()

	c := newCursor(data, 0, StageHeader, ErrTruncated)
	h, err := readHeader(c)
	require.NoError(t, err)

	assert.Equal(t, uint8(2), h.version)
	assert.Equal(t, 3, h.databases)
	assert.Equal(t, int64(HeaderSize), c.pos())
}

func TestReadHeader_BigEndianCount(t *testing.T) {
	data := make([]byte, HeaderSize)
	data[PrologueSize] = 1
	data[PrologueSize+1] = 0x01
	data[PrologueSize+2] = 0x02

	h, err := readHeader(newCursor(data, 0, StageHeader, ErrTruncated))
	require.NoError(t, err)
	assert.Equal(t, 0x0102, h.databases)
}

func TestReadHeader_NegativeCount(t *testing.T) {
	data := make([]byte, HeaderSize)
	data[PrologueSize+1] = 0xFF
	data[PrologueSize+2] = 0xFE

	_, err := readHeader(newCursor(data, 0, StageHeader, ErrTruncated))
	require.ErrorIs(t, err, ErrMalformed)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, StageHeader, de.Stage)
	assert.Equal(t, int64(PrologueSize+1), de.Offset)
}

func TestReadHeader_Truncated(t *testing.T) {
	full := newIPD(1, "A").bytes()

	testCases := []struct {
		name   string
		length int
		offset int64
	}{
		{name: "empty", length: 0, offset: 0},
		{name: "mid prologue", length: 20, offset: 0},
		{name: "before version", length: PrologueSize, offset: PrologueSize},
		{name: "mid count", length: PrologueSize + 2, offset: PrologueSize + 1},
		{name: "before reserved byte", length: PrologueSize + 3, offset: PrologueSize + 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readHeader(newCursor(full[:tc.length], 0, StageHeader, ErrTruncated))
			require.ErrorIs(t, err, ErrTruncated)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, StageHeader, de.Stage)
			assert.Equal(t, tc.offset, de.Offset)
		})
	}
}
