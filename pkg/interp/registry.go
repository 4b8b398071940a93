package interp

import (
	"fmt"

	"github.com/ssargent/ipd/pkg/ipd"
)

// Registry maps (database name, field type code) pairs to interpreters.
// A Registry is not safe for concurrent modification; build it once and
// share it read-only.
type Registry struct {
	byDatabase map[string]map[uint8]Interpreter
	fallback   Interpreter
}

// NewRegistry creates an empty registry that renders unknown fields as hex.
func NewRegistry() *Registry {
	return &Registry{
		byDatabase: make(map[string]map[uint8]Interpreter),
		fallback:   Hex,
	}
}

// FromConfig builds a registry from database -> type code -> interpreter name.
func FromConfig(spec map[string]map[uint8]string) (*Registry, error) {
	r := NewRegistry()
	for db, codes := range spec {
		for code, name := range codes {
			in, err := Builtin(name)
			if err != nil {
				return nil, fmt.Errorf("database %q type %d: %w", db, code, err)
			}
			r.Register(db, code, in)
		}
	}
	return r, nil
}

// Register sets the interpreter for a field type code within a database.
func (r *Registry) Register(database string, code uint8, in Interpreter) {
	codes, ok := r.byDatabase[database]
	if !ok {
		codes = make(map[uint8]Interpreter)
		r.byDatabase[database] = codes
	}
	codes[code] = in
}

// Lookup returns the interpreter registered for a field type code.
func (r *Registry) Lookup(database string, code uint8) (Interpreter, bool) {
	in, ok := r.byDatabase[database][code]
	return in, ok
}

// Value is an interpreted field.
type Value struct {
	Type        uint8  `json:"type"`
	Length      int    `json:"length"`
	Interpreter string `json:"interpreter"`
	Value       any    `json:"value"`
	Error       string `json:"error,omitempty"`
}

// Interpret interprets a field from the named database. Fields without a
// registered interpreter, or whose interpreter fails, fall back to hex; the
// failure is reported in Value.Error.
func (r *Registry) Interpret(database string, f ipd.Field) Value {
	v := Value{Type: f.Type, Length: len(f.Data)}

	if in, ok := r.Lookup(database, f.Type); ok {
		out, err := in.Interpret(f.Data)
		if err == nil {
			v.Interpreter, v.Value = in.Name(), out
			return v
		}
		v.Error = err.Error()
	}

	out, _ := r.fallback.Interpret(f.Data)
	v.Interpreter, v.Value = r.fallback.Name(), out
	return v
}

// RecordView is a record with interpreted fields, suitable for display.
type RecordView struct {
	Version uint8   `json:"version"`
	Handle  uint16  `json:"handle"`
	ID      uint32  `json:"id"`
	Fields  []Value `json:"fields"`
}

// View interprets every field of a record. With raw set, all fields are
// rendered with the fallback interpreter.
func (r *Registry) View(database string, rec *ipd.Record, raw bool) RecordView {
	view := RecordView{
		Version: rec.Version(),
		Handle:  rec.Handle(),
		ID:      rec.ID(),
		Fields:  make([]Value, 0, rec.Len()),
	}
	for _, f := range rec.Fields() {
		if raw {
			out, _ := r.fallback.Interpret(f.Data)
			view.Fields = append(view.Fields, Value{Type: f.Type, Length: len(f.Data), Interpreter: r.fallback.Name(), Value: out})
			continue
		}
		view.Fields = append(view.Fields, r.Interpret(database, f))
	}
	return view
}
