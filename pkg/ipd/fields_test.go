package ipd

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFields(t *testing.T) {
	testCases := []struct {
		name   string
		fields []Field
	}{
		{
			name:   "single field",
			fields: []Field{{Type: 100, Data: []byte{1}}},
		},
		{
			name: "repeated types keep order",
			fields: []Field{
				{Type: 2, Data: []byte("first")},
				{Type: 3, Data: []byte("1.0.0")},
				{Type: 2, Data: []byte("second")},
			},
		},
		{
			name:   "empty data",
			fields: []Field{{Type: 7, Data: []byte{}}, {Type: 8, Data: []byte{0xFF}}},
		},
		{
			name:   "large field",
			fields: []Field{{Type: 1, Data: bytes.Repeat([]byte("x"), 0xFFFF)}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fields, err := DecodeFields(encodeFields(tc.fields...))
			require.NoError(t, err)
			require.Len(t, fields, len(tc.fields))

			for i, want := range tc.fields {
				assert.Equal(t, want.Type, fields[i].Type, "field %d type", i)
				assert.True(t, bytes.Equal(want.Data, fields[i].Data), "field %d data", i)
			}
		})
	}
}

func TestDecodeFields_EmptyStream(t *testing.T) {
	fields, err := DecodeFields(nil)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestDecodeFields_Misaligned(t *testing.T) {
	valid := encodeFields(Field{Type: 1, Data: []byte("abc")})

	testCases := []struct {
		name   string
		data   []byte
		offset int64
	}{
		{name: "data overruns", data: []byte{4, 0, 1, 'a', 'b', 'c'}, offset: 3},
		{name: "dangling length byte", data: append(bytes.Clone(valid), 9), offset: 6},
		{name: "missing type", data: append(bytes.Clone(valid), 1, 0), offset: 8},
		{name: "second field overruns", data: append(bytes.Clone(valid), 2, 0, 5, 'z'), offset: 9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fields, err := DecodeFields(tc.data)
			require.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, fields)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, StageField, de.Stage)
			assert.Equal(t, tc.offset, de.Offset)
		})
	}
}

func TestDecodeFields_ExactConsumption(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := rng.Intn(8)
		want := make([]Field, n)
		for j := range want {
			data := make([]byte, rng.Intn(64))
			rng.Read(data)
			want[j] = Field{Type: uint8(rng.Intn(256)), Data: data}
		}
		stream := encodeFields(want...)

		got, err := DecodeFields(stream)
		require.NoError(t, err)
		require.Len(t, got, n)

		consumed := 0
		for _, f := range got {
			consumed += FieldHeaderSize + len(f.Data)
		}
		assert.Equal(t, len(stream), consumed)

		if len(stream) > 0 {
			// Dropping the last byte always leaves a field short.
			_, err := DecodeFields(stream[:len(stream)-1])
			assert.ErrorIs(t, err, ErrMalformed)
		}
	}
}
