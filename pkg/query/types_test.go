package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldQuery_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		query   FieldQuery
		wantErr bool
	}{
		{name: "equality", query: FieldQuery{Type: 100, Operator: "=", Value: "1"}},
		{name: "contains", query: FieldQuery{Type: 2, Operator: "contains", Value: "Mess"}},
		{name: "range", query: FieldQuery{Type: 2, Operator: ">=", Value: "5"}},
		{name: "empty operator", query: FieldQuery{Type: 2}, wantErr: true},
		{name: "unknown operator", query: FieldQuery{Type: 2, Operator: "~"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.query.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseFieldQuery(t *testing.T) {
	q, err := ParseFieldQuery("100", "", "1")
	require.NoError(t, err)
	assert.Equal(t, FieldQuery{Type: 100, Operator: OpEqual, Value: "1"}, q)

	q, err = ParseFieldQuery("0x64", "!=", "2")
	require.NoError(t, err)
	assert.Equal(t, uint8(100), q.Type)

	_, err = ParseFieldQuery("256", "=", "1")
	assert.Error(t, err)

	_, err = ParseFieldQuery("abc", "=", "1")
	assert.Error(t, err)

	_, err = ParseFieldQuery("1", "like", "1")
	assert.Error(t, err)
}

func TestCollect_EmptyIterator(t *testing.T) {
	assert.Empty(t, Collect(&simpleIterator{}))
}
