package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"no placeholders", "select 1", "select 1"},
		{"positional", "select * from t where a = ? and b = ?", "select * from t where a = $1 and b = $2"},
		{"single quoted", "select '?' from t where a = ?", "select '?' from t where a = $1"},
		{"escaped quote", "select 'it''s ?' , ?", "select 'it''s ?' , $1"},
		{"double quoted identifier", `select "what?" from t where a = ?`, `select "what?" from t where a = $1`},
		{"line comment", "select ? -- why?\n, ?", "select $1 -- why?\n, $2"},
		{"block comment", "select /* ? */ ?", "select /* ? */ $1"},
		{"unterminated literal", "select 'abc ?", "select 'abc ?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostgresDialect.Rebind(tt.query))
		})
	}
}

func TestRebindQuestionDialects(t *testing.T) {
	q := "select * from t where a = ?"
	assert.Equal(t, q, MySQLDialect.Rebind(q))
	assert.Equal(t, q, GenericDialect.Rebind(q))
}
