package query

import (
	"cmp"
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/ssargent/ipd/pkg/interp"
	"github.com/ssargent/ipd/pkg/ipd"
)

// FileEngine runs field queries against a decoded IPD file.
type FileEngine struct {
	file     *ipd.File
	registry *interp.Registry
}

// NewFileEngine creates a query engine. A nil registry compares raw field
// data as hex.
func NewFileEngine(file *ipd.File, registry *interp.Registry) *FileEngine {
	if registry == nil {
		registry = interp.NewRegistry()
	}
	return &FileEngine{file: file, registry: registry}
}

// ExecuteQuery returns the records of database whose first field of the
// query's type satisfies the predicate. Records without such a field never
// match.
func (qe *FileEngine) ExecuteQuery(ctx context.Context, database string, query FieldQuery) (QueryIterator, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	db, err := qe.file.Database(database)
	if err != nil {
		return nil, err
	}

	var results []*ipd.Record
	for _, rec := range db.Records() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		field, ok := rec.FirstOfType(query.Type)
		if !ok {
			continue
		}
		v := qe.registry.Interpret(database, field)
		match, err := compare(v.Value, query.Operator, query.Value)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", rec.ID(), err)
		}
		if match {
			results = append(results, rec)
		}
	}

	return &simpleIterator{results: results}, nil
}

// compare evaluates value <op> operand. Integers compare numerically, other
// values compare as text.
func compare(value any, op, operand string) (bool, error) {
	var text string
	switch v := value.(type) {
	case uint64:
		if op == OpContains {
			text = strconv.FormatUint(v, 10)
			break
		}
		n, err := strconv.ParseUint(operand, 0, 64)
		if err != nil {
			return false, fmt.Errorf("value %q is not an unsigned integer", operand)
		}
		return ordered(cmp.Compare(v, n), op), nil
	case int64:
		if op == OpContains {
			text = strconv.FormatInt(v, 10)
			break
		}
		n, err := strconv.ParseInt(operand, 0, 64)
		if err != nil {
			return false, fmt.Errorf("value %q is not an integer", operand)
		}
		return ordered(cmp.Compare(v, n), op), nil
	case string:
		text = v
	case []byte:
		text = hex.EncodeToString(v)
	default:
		text = fmt.Sprint(v)
	}

	if op == OpContains {
		return strings.Contains(text, operand), nil
	}
	return ordered(strings.Compare(text, operand), op), nil
}

func ordered(c int, op string) bool {
	switch op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpLess:
		return c < 0
	case OpGreater:
		return c > 0
	case OpLessEq:
		return c <= 0
	case OpGreaterEq:
		return c >= 0
	}
	return false
}

// simpleIterator implements QueryIterator over a materialised result set
type simpleIterator struct {
	results []*ipd.Record
	index   int
}

func (it *simpleIterator) Next() bool {
	if it.index < len(it.results) {
		it.index++
		return true
	}
	return false
}

func (it *simpleIterator) Record() *ipd.Record {
	if it.index > 0 && it.index <= len(it.results) {
		return it.results[it.index-1]
	}
	return nil
}

func (it *simpleIterator) Close() error {
	return nil
}
