package database

import (
	"strconv"
	"strings"

	"github.com/Aleph-Alpha/datalayer/v1/mariadb"
	"github.com/Aleph-Alpha/datalayer/v1/postgres"
)

// Placeholder is the positional parameter syntax of a driver.
type Placeholder uint8

const (
	// Question keeps ? placeholders.
	Question Placeholder = iota
	// Dollar rewrites ? to $1, $2, ...
	Dollar
)

// Dialect holds what the executor needs to know about a database kind.
type Dialect struct {
	Name        string
	Placeholder Placeholder
	// LastInsertID selects the id generated by the last insert of the session.
	LastInsertID string

	IsUniqueViolation     func(error) bool
	IsForeignKeyViolation func(error) bool
}

var (
	PostgresDialect = Dialect{
		Name:                  postgres.Kind,
		Placeholder:           Dollar,
		LastInsertID:          "select lastval()",
		IsUniqueViolation:     postgres.IsUniqueViolation,
		IsForeignKeyViolation: postgres.IsForeignKeyViolation,
	}

	MySQLDialect = Dialect{
		Name:                  mariadb.Kind,
		Placeholder:           Question,
		LastInsertID:          "select last_insert_id()",
		IsUniqueViolation:     mariadb.IsUniqueViolation,
		IsForeignKeyViolation: mariadb.IsForeignKeyViolation,
	}

	// GenericDialect keeps statements as written and classifies nothing.
	// Its last insert id query is the SQLite one.
	GenericDialect = Dialect{Name: "generic", LastInsertID: "select last_insert_rowid()"}
)

// Rebind rewrites ? placeholders for the dialect. Question marks inside
// quoted literals, quoted identifiers and comments are left alone.
func (d Dialect) Rebind(query string) string {
	if d.Placeholder != Dollar || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := skipQuoted(query, i, c)
			b.WriteString(query[i:end])
			i = end - 1
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				end = len(query)
			} else {
				end += i
			}
			b.WriteString(query[i:end])
			i = end - 1
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				end = len(query)
			} else {
				end += i + 4
			}
			b.WriteString(query[i:end])
			i = end - 1
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// skipQuoted returns the index just past the literal opened at query[start].
// A doubled quote character is an escaped quote.
func skipQuoted(query string, start int, quote byte) int {
	for i := start + 1; i < len(query); i++ {
		if query[i] != quote {
			continue
		}
		if i+1 < len(query) && query[i+1] == quote {
			i++
			continue
		}
		return i + 1
	}
	return len(query)
}

// classify maps a driver error to a sentinel, or nil.
func (d Dialect) classify(err error) error {
	switch {
	case d.IsUniqueViolation != nil && d.IsUniqueViolation(err):
		return ErrDuplicateKey
	case d.IsForeignKeyViolation != nil && d.IsForeignKeyViolation(err):
		return ErrForeignKey
	}
	return nil
}
