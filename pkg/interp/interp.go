// Package interp turns raw IPD field data into typed values.
//
// The ipd package treats field data as opaque bytes. What a field means depends
// on the database it belongs to and its type code, so interpreters are
// registered per (database, type code) pair by the consumer.
package interp

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"unicode/utf8"
)

// Interpreter converts field data into a value.
type Interpreter interface {
	Name() string
	Interpret(data []byte) (any, error)
}

// Func adapts a function to the Interpreter interface.
type Func struct {
	name string
	fn   func([]byte) (any, error)
}

// NewFunc creates a named interpreter from fn.
func NewFunc(name string, fn func([]byte) (any, error)) Func {
	return Func{name: name, fn: fn}
}

func (f Func) Name() string { return f.name }

func (f Func) Interpret(data []byte) (any, error) { return f.fn(data) }

// Built-in interpreters.
var (
	Text  Interpreter = NewFunc("text", interpretText)
	Uint  Interpreter = NewFunc("uint", interpretUint)
	Int   Interpreter = NewFunc("int", interpretInt)
	Hex   Interpreter = NewFunc("hex", func(data []byte) (any, error) { return hex.EncodeToString(data), nil })
	Bytes Interpreter = NewFunc("bytes", func(data []byte) (any, error) { return data, nil })
)

var builtins = map[string]Interpreter{
	Text.Name():  Text,
	Uint.Name():  Uint,
	Int.Name():   Int,
	Hex.Name():   Hex,
	Bytes.Name(): Bytes,
}

// Builtin returns the built-in interpreter with the given name.
func Builtin(name string) (Interpreter, error) {
	in, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown interpreter %q (want one of %v)", name, BuiltinNames())
	}
	return in, nil
}

// BuiltinNames returns the names of the built-in interpreters, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// interpretText decodes UTF-8 text, dropping trailing NUL terminators.
func interpretText(data []byte) (any, error) {
	data = bytes.TrimRight(data, "\x00")
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("field data is not valid UTF-8")
	}
	return string(data), nil
}

func interpretUint(data []byte) (any, error) {
	switch len(data) {
	case 1:
		return uint64(data[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(data)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(data)), nil
	case 8:
		return binary.LittleEndian.Uint64(data), nil
	}
	return nil, fmt.Errorf("cannot read %d bytes as an integer", len(data))
}

func interpretInt(data []byte) (any, error) {
	switch len(data) {
	case 1:
		return int64(int8(data[0])), nil
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(data))), nil
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(data))), nil
	case 8:
		return int64(binary.LittleEndian.Uint64(data)), nil
	}
	return nil, fmt.Errorf("cannot read %d bytes as an integer", len(data))
}
