package ipd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nameTableCursor(entries ...byte) *cursor {
	return newCursor(entries, HeaderSize, StageNameTable, ErrTruncated)
}

func TestReadNameTable(t *testing.T) {
	data := newIPD(1, "Address Book", "Handheld Agent", "Memos").bytes()[HeaderSize:]

	names, err := readNameTable(nameTableCursor(data...), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Address Book", "Handheld Agent", "Memos"}, names)
}

func TestReadNameTable_StripsTerminator(t *testing.T) {
	// The terminator is stripped whatever its value.
	names, err := readNameTable(nameTableCursor(3, 0, 'a', 'b', 'X'), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab"}, names)
}

func TestReadNameTable_Empty(t *testing.T) {
	names, err := readNameTable(nameTableCursor(), 0)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestReadNameTable_Unicode(t *testing.T) {
	name := "Réglages ✓"
	entry := append([]byte{byte(len(name) + 1), 0}, name...)
	entry = append(entry, 0)

	names, err := readNameTable(nameTableCursor(entry...), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{name}, names)
}

func TestReadNameTable_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		data   []byte
		count  int
		kind   error
		offset int64
	}{
		{
			name:   "zero length",
			data:   []byte{0, 0},
			count:  1,
			kind:   ErrMalformed,
			offset: HeaderSize,
		},
		{
			name:   "negative length",
			data:   []byte{0x00, 0x80, 'a'},
			count:  1,
			kind:   ErrMalformed,
			offset: HeaderSize,
		},
		{
			name:   "invalid utf-8",
			data:   []byte{3, 0, 0xC3, 0x28, 0},
			count:  1,
			kind:   ErrMalformed,
			offset: HeaderSize + 2,
		},
		{
			name:   "duplicate name",
			data:   []byte{2, 0, 'a', 0, 2, 0, 'a', 0},
			count:  2,
			kind:   ErrMalformed,
			offset: HeaderSize + 4,
		},
		{
			name:   "missing entry",
			data:   []byte{2, 0, 'a', 0},
			count:  2,
			kind:   ErrTruncated,
			offset: HeaderSize + 4,
		},
		{
			name:   "mid length",
			data:   []byte{2},
			count:  1,
			kind:   ErrTruncated,
			offset: HeaderSize,
		},
		{
			name:   "mid name",
			data:   []byte{5, 0, 'a', 'b'},
			count:  1,
			kind:   ErrTruncated,
			offset: HeaderSize + 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			names, err := readNameTable(nameTableCursor(tc.data...), tc.count)
			require.ErrorIs(t, err, tc.kind)
			assert.Nil(t, names)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, StageNameTable, de.Stage)
			assert.Equal(t, tc.offset, de.Offset)
		})
	}
}
