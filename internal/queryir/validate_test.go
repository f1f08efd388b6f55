package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/ir"
)

func TestValidate_ValidSelect(t *testing.T) {
	query := Select{
		From:    "messages",
		Columns: []string{"id", "seq", "output"},
		Filter: And{Predicates: []Predicate{
			Equals{Field: "session", Value: ir.IRString("s1")},
			&Compare{Field: "seq", Op: AtLeast, Value: ir.IRInt(2)},
			Compare{Field: "seq", Op: AtMost, Value: ir.IRInt(9)},
		}},
		OrderBy: []string{"seq"},
		Limit:   10,
	}

	result := Validate(query)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)

	// Pointer form is accepted too.
	assert.True(t, Validate(&query).Valid)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr string
	}{
		{
			name:    "nil query",
			query:   nil,
			wantErr: "nil query",
		},
		{
			name:    "unknown table",
			query:   Select{From: "rotors", Columns: []string{"id"}},
			wantErr: `unknown table "rotors"`,
		},
		{
			name:    "no columns",
			query:   Select{From: "messages"},
			wantErr: "no columns selected",
		},
		{
			name:    "unknown column",
			query:   Select{From: "messages", Columns: []string{"id", "positions"}},
			wantErr: `unknown column "positions" in table messages`,
		},
		{
			name:    "injection in column name",
			query:   Select{From: "messages", Columns: []string{"id"}, OrderBy: []string{"seq; DROP TABLE messages"}},
			wantErr: "unknown column",
		},
		{
			name: "kind mismatch",
			query: Select{From: "messages", Columns: []string{"id"},
				Filter: Equals{Field: "seq", Value: ir.IRString("3")}},
			wantErr: `column "seq" holds int, compared to ir.IRString`,
		},
		{
			name: "nil value",
			query: Select{From: "messages", Columns: []string{"id"},
				Filter: Equals{Field: "session", Value: nil}},
			wantErr: `column "session" holds string`,
		},
		{
			name: "compare on text",
			query: Select{From: "messages", Columns: []string{"id"},
				Filter: Compare{Field: "windows", Op: AtLeast, Value: ir.IRString("AAA")}},
			wantErr: "only int columns can be compared",
		},
		{
			name: "unknown operator",
			query: Select{From: "messages", Columns: []string{"id"},
				Filter: Compare{Field: "seq", Op: "<>", Value: ir.IRInt(1)}},
			wantErr: `unknown comparison "<>"`,
		},
		{
			name:    "negative limit",
			query:   Select{From: "machine_keys", Columns: []string{"key_id"}, Limit: -1},
			wantErr: "negative limit -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)
			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0], tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	query := Select{
		From:    "messages",
		Columns: []string{"nope"},
		Filter: And{Predicates: []Predicate{
			Equals{Field: "missing", Value: ir.IRString("x")},
			And{Predicates: []Predicate{
				Compare{Field: "seq", Op: AtLeast, Value: ir.IRBool(true)},
			}},
		}},
	}

	result := Validate(query)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
}

func TestLookupTable(t *testing.T) {
	table, ok := LookupTable("messages")
	require.True(t, ok)
	assert.Equal(t, "id", table.PrimaryKey)
	assert.Equal(t, KindInt, table.Columns["seq"])

	keys, ok := LookupTable("machine_keys")
	require.True(t, ok)
	assert.Equal(t, "key_id", keys.PrimaryKey)

	_, ok = LookupTable("flows")
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "string", KindString.String())
}
