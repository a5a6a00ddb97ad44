package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// openSQLite opens a file-backed SQLite pool limited to one connection.
func openSQLite(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), name+".db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestDatabase(t *testing.T, opts Options) *Database {
	t.Helper()
	return NewFromDB(openSQLite(t, "primary"), nil, opts)
}

func mustExec(t *testing.T, db *Database, query string, params ...Param) {
	t.Helper()
	_, err := db.Execute(t.Context(), query, params...)
	require.NoError(t, err)
}

const usersTable = `create table users (
	id integer primary key autoincrement,
	name text not null unique,
	age integer
)`
