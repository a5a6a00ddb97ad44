package entity

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/datalayer/v1/database"
)

// queryCounter counts read statements issued through a Database.
type queryCounter struct {
	queries atomic.Int64
}

func (c *queryCounter) RecordStatement(kind string, _ time.Time, _ error) {
	if kind == "query" {
		c.queries.Add(1)
	}
}

func (c *queryCounter) count() int64 {
	return c.queries.Load()
}

type user struct {
	Entity
	Timestamps
	Name string
}

type post struct {
	Entity
	AuthorID int64
	Title    string
}

type fixture struct {
	db      *database.Database
	counter *queryCounter
	users   *Table[*user]
	posts   *Table[*post]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pool, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "entity.db"))
	require.NoError(t, err)
	pool.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = pool.Close() })

	counter := &queryCounter{}
	db := database.NewFromDB(pool, nil, database.Options{Statements: counter})

	ctx := context.Background()
	for _, stmt := range []string{
		`create table users (
			id integer primary key autoincrement,
			name text not null,
			created_at datetime,
			updated_at datetime
		)`,
		`create table posts (
			id integer primary key autoincrement,
			author_id integer,
			title text not null
		)`,
	} {
		_, err := db.Execute(ctx, stmt)
		require.NoError(t, err)
	}

	users := NewTable(db, "users",
		[]database.Result{
			database.R("id", database.TypeInt64),
			database.R("name", database.TypeText),
			database.R("created_at", database.TypeDateTime),
			database.R("updated_at", database.TypeDateTime),
		},
		func(row database.Row) (*user, error) {
			id, err := row.Int64("id")
			if err != nil {
				return nil, err
			}
			name, err := row.Text("name")
			if err != nil {
				return nil, err
			}
			u := &user{Entity: Entity{ID: id}, Name: name}
			if created, err := row.DateTimeOrNull("created_at"); err != nil {
				return nil, err
			} else if created != nil {
				u.CreatedAt = *created
			}
			if updated, err := row.DateTimeOrNull("updated_at"); err != nil {
				return nil, err
			} else if updated != nil {
				u.UpdatedAt = *updated
			}
			return u, nil
		})

	posts := NewTable(db, "posts",
		[]database.Result{
			database.R("id", database.TypeInt64),
			database.R("author_id", database.TypeInt64),
			database.R("title", database.TypeText),
		},
		func(row database.Row) (*post, error) {
			id, err := row.Int64("id")
			if err != nil {
				return nil, err
			}
			author, err := row.Int64OrNull("author_id")
			if err != nil {
				return nil, err
			}
			title, err := row.Text("title")
			if err != nil {
				return nil, err
			}
			p := &post{Entity: Entity{ID: id}, Title: title}
			if author != nil {
				p.AuthorID = *author
			}
			return p, nil
		})

	return &fixture{db: db, counter: counter, users: users, posts: posts}
}

func (f *fixture) insertUser(t *testing.T, name string) int64 {
	t.Helper()
	id, err := f.users.Insert(context.Background(), map[string]database.Param{
		"name": database.Text(name),
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) insertPost(t *testing.T, authorID int64, title string) int64 {
	t.Helper()
	id, err := f.posts.Insert(context.Background(), map[string]database.Param{
		"author_id": database.Int64(authorID),
		"title":     database.Text(title),
	})
	require.NoError(t, err)
	return id
}
