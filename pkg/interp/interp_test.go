package interp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/ipd/pkg/ipd"
)

func TestBuiltins(t *testing.T) {
	testCases := []struct {
		name    string
		in      Interpreter
		data    []byte
		want    any
		wantErr bool
	}{
		{name: "text strips terminator", in: Text, data: []byte("Messenger\x00"), want: "Messenger"},
		{name: "text empty", in: Text, data: nil, want: ""},
		{name: "text invalid", in: Text, data: []byte{0xC3, 0x28}, wantErr: true},
		{name: "uint8", in: Uint, data: []byte{1}, want: uint64(1)},
		{name: "uint16", in: Uint, data: []byte{0x01, 0x02}, want: uint64(0x0201)},
		{name: "uint32", in: Uint, data: []byte{0x01, 0, 0, 0x80}, want: uint64(0x80000001)},
		{name: "uint64", in: Uint, data: []byte{1, 0, 0, 0, 0, 0, 0, 0}, want: uint64(1)},
		{name: "uint odd width", in: Uint, data: []byte{1, 2, 3}, wantErr: true},
		{name: "int negative", in: Int, data: []byte{0xFE, 0xFF}, want: int64(-2)},
		{name: "int8", in: Int, data: []byte{0x80}, want: int64(-128)},
		{name: "hex", in: Hex, data: []byte{0xDE, 0xAD}, want: "dead"},
		{name: "bytes", in: Bytes, data: []byte{1, 2}, want: []byte{1, 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.in.Interpret(tc.data)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuiltin(t *testing.T) {
	in, err := Builtin("text")
	require.NoError(t, err)
	assert.Equal(t, "text", in.Name())

	_, err = Builtin("float")
	assert.Error(t, err)

	assert.Equal(t, []string{"bytes", "hex", "int", "text", "uint"}, BuiltinNames())
}

func TestRegistry_Interpret(t *testing.T) {
	r := NewRegistry()
	r.Register("Handheld Agent", 2, Text)
	r.Register("Handheld Agent", 100, Uint)

	v := r.Interpret("Handheld Agent", ipd.Field{Type: 2, Data: []byte("Phone\x00")})
	assert.Equal(t, "text", v.Interpreter)
	assert.Equal(t, "Phone", v.Value)
	assert.Equal(t, 6, v.Length)
	assert.Empty(t, v.Error)

	// Registrations are per database.
	v = r.Interpret("Memos", ipd.Field{Type: 2, Data: []byte("ab")})
	assert.Equal(t, "hex", v.Interpreter)
	assert.Equal(t, "6162", v.Value)

	// A failing interpreter falls back to hex and reports why.
	v = r.Interpret("Handheld Agent", ipd.Field{Type: 100, Data: []byte{1, 2, 3}})
	assert.Equal(t, "hex", v.Interpreter)
	assert.Equal(t, "010203", v.Value)
	assert.NotEmpty(t, v.Error)
}

func TestRegistry_CustomInterpreter(t *testing.T) {
	r := NewRegistry()
	r.Register("Tasks", 9, NewFunc("flag", func(data []byte) (any, error) {
		if len(data) != 1 {
			return nil, errors.New("want one byte")
		}
		return data[0] != 0, nil
	}))

	v := r.Interpret("Tasks", ipd.Field{Type: 9, Data: []byte{1}})
	assert.Equal(t, "flag", v.Interpreter)
	assert.Equal(t, true, v.Value)
}

func TestFromConfig(t *testing.T) {
	r, err := FromConfig(map[string]map[uint8]string{
		"Handheld Agent": {2: "text", 100: "uint"},
	})
	require.NoError(t, err)

	in, ok := r.Lookup("Handheld Agent", 100)
	require.True(t, ok)
	assert.Equal(t, "uint", in.Name())

	_, ok = r.Lookup("Handheld Agent", 3)
	assert.False(t, ok)

	_, err = FromConfig(map[string]map[uint8]string{"Memos": {1: "nope"}})
	assert.ErrorContains(t, err, `database "Memos" type 1`)
}

func TestRegistry_View(t *testing.T) {
	rec, err := ipd.DecodeRecord([]byte{
		1, 2, 0, 3, 0, 0, 0,
		1, 0, 100, 1,
		3, 0, 2, 'a', 'b', 0,
	})
	require.NoError(t, err)

	r := NewRegistry()
	r.Register("Handheld Agent", 2, Text)
	r.Register("Handheld Agent", 100, Uint)

	view := r.View("Handheld Agent", rec, false)
	assert.Equal(t, uint32(3), view.ID)
	assert.Equal(t, uint16(2), view.Handle)
	require.Len(t, view.Fields, 2)
	assert.Equal(t, uint64(1), view.Fields[0].Value)
	assert.Equal(t, "ab", view.Fields[1].Value)

	raw := r.View("Handheld Agent", rec, true)
	assert.Equal(t, "01", raw.Fields[0].Value)
	assert.Equal(t, "616200", raw.Fields[1].Value)
}
