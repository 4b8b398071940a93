package query

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ssargent/ipd/pkg/ipd"
)

// Operators supported by FieldQuery.
const (
	OpEqual     = "="
	OpNotEqual  = "!="
	OpContains  = "contains"
	OpLess      = "<"
	OpGreater   = ">"
	OpLessEq    = "<="
	OpGreaterEq = ">="
)

var validOps = map[string]bool{
	OpEqual: true, OpNotEqual: true, OpContains: true,
	OpLess: true, OpGreater: true, OpLessEq: true, OpGreaterEq: true,
}

// FieldQuery matches records on the first field of a given type code.
type FieldQuery struct {
	Type     uint8  // field type code
	Operator string // "=", "!=", "contains", "<", ">", "<=", ">="
	Value    string // compared against the interpreted field value
}

// ParseFieldQuery builds a query from its textual parts, as given on a
// command line or in a URL.
func ParseFieldQuery(typ, operator, value string) (FieldQuery, error) {
	code, err := strconv.ParseUint(typ, 0, 8)
	if err != nil {
		return FieldQuery{}, fmt.Errorf("invalid field type %q: %w", typ, err)
	}
	if operator == "" {
		operator = OpEqual
	}
	q := FieldQuery{Type: uint8(code), Operator: operator, Value: value}
	return q, q.Validate()
}

// Validate checks if the query is properly formed
func (q *FieldQuery) Validate() error {
	if q.Operator == "" {
		return fmt.Errorf("operator cannot be empty")
	}
	if !validOps[q.Operator] {
		return fmt.Errorf("invalid operator: %s", q.Operator)
	}
	return nil
}

// QueryIterator provides streaming access to query results
type QueryIterator interface {
	Next() bool
	Record() *ipd.Record
	Close() error
}

// QueryEngine handles query execution
type QueryEngine interface {
	ExecuteQuery(ctx context.Context, database string, query FieldQuery) (QueryIterator, error)
}

// Collect drains an iterator into a slice.
func Collect(it QueryIterator) []*ipd.Record {
	defer it.Close()

	var out []*ipd.Record
	for it.Next() {
		out = append(out, it.Record())
	}
	return out
}
