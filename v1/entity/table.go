package entity

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Aleph-Alpha/datalayer/v1/database"
)

// Table maps rows of one SQL table to records of type E. Columns lists the
// selected columns in order; the table must have an integer "id" column.
type Table[E any] struct {
	Name    string
	Columns []database.Result
	Scan    func(row database.Row) (E, error)

	db *database.Database
}

// NewTable creates a Table bound to db.
func NewTable[E any](db *database.Database, name string, columns []database.Result, scan func(database.Row) (E, error)) *Table[E] {
	return &Table[E]{
		Name:    name,
		Columns: columns,
		Scan:    scan,
		db:      db,
	}
}

// DB returns the database the table is bound to.
func (t *Table[E]) DB() *database.Database {
	return t.db
}

func (t *Table[E]) selectFrom() string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return "select " + strings.Join(names, ", ") + " from " + t.Name
}

func (t *Table[E]) scanAll(rows []database.Row) ([]E, error) {
	out := make([]E, 0, len(rows))
	for _, row := range rows {
		e, err := t.Scan(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// FindByID returns the record with id. Ids below 1 are reported absent
// without a query.
func (t *Table[E]) FindByID(ctx context.Context, id int64, mode database.Mode) (E, bool, error) {
	var zero E
	if id <= 0 {
		return zero, false, nil
	}

	row, found, err := t.db.QueryOne(ctx, t.selectFrom()+" where id = ?",
		[]database.Param{database.Int64(id)}, t.Columns, mode)
	if err != nil || !found {
		return zero, false, err
	}
	e, err := t.Scan(row)
	if err != nil {
		return zero, false, fmt.Errorf("%s: %w", t.Name, err)
	}
	return e, true, nil
}

// FindByIDs returns the records with the given ids ordered by id. Missing ids
// are skipped. An empty ids slice returns an empty result without a query.
func (t *Table[E]) FindByIDs(ctx context.Context, ids []int64, mode database.Mode) ([]E, error) {
	if len(ids) == 0 {
		return []E{}, nil
	}

	params := make([]database.Param, len(ids))
	for i, id := range ids {
		params[i] = database.Int64(id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")

	rows, err := t.db.Query(ctx, t.selectFrom()+" where id in ("+placeholders+") order by id",
		params, t.Columns, mode)
	if err != nil {
		return nil, err
	}
	return t.scanAll(rows)
}

// FindAll returns every record ordered by id.
func (t *Table[E]) FindAll(ctx context.Context, mode database.Mode) ([]E, error) {
	rows, err := t.db.Query(ctx, t.selectFrom()+" order by id", nil, t.Columns, mode)
	if err != nil {
		return nil, err
	}
	return t.scanAll(rows)
}

// Count returns the number of rows.
func (t *Table[E]) Count(ctx context.Context, mode database.Mode) (int, error) {
	query := "select count(*) from " + t.Name
	if mode == database.Read {
		return t.db.QueryIntReadOnly(ctx, query)
	}
	return t.db.QueryInt(ctx, query)
}

// DeleteByID deletes the row id and reports whether it existed.
func (t *Table[E]) DeleteByID(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	n, err := t.db.Execute(ctx, "delete from "+t.Name+" where id = ?", database.Int64(id))
	return n > 0, err
}

// Insert inserts one row from column values and returns its generated id.
// The insert and the id lookup share a transaction, so they run on the same
// session.
func (t *Table[E]) Insert(ctx context.Context, values map[string]database.Param) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%s: insert without values", t.Name)
	}
	lastID := t.db.Dialect().LastInsertID
	if lastID == "" {
		return 0, fmt.Errorf("%s: dialect %s cannot report inserted ids", t.Name, t.db.Dialect().Name)
	}

	columns := make([]string, 0, len(values))
	for c := range values {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	params := make([]database.Param, len(columns))
	for i, c := range columns {
		params[i] = values[c]
	}
	query := "insert into " + t.Name + " (" + strings.Join(columns, ", ") + ") values (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	return database.Transaction(ctx, t.db, database.IsolationDefault, func(ctx context.Context) (int64, error) {
		if _, err := t.db.Execute(ctx, query, params...); err != nil {
			return 0, err
		}
		ids, err := t.db.QueryIDs(ctx, lastID)
		if err != nil {
			return 0, err
		}
		if len(ids) == 0 {
			return 0, fmt.Errorf("%s: no id reported for insert", t.Name)
		}
		return ids[0], nil
	})
}

// DatedTable is a Table whose rows carry created_at and updated_at columns.
type DatedTable[E any] struct {
	*Table[E]

	CreatedColumn string
	UpdatedColumn string
	// Now is the clock used by RefreshUpdatedAt.
	Now func() time.Time
}

// NewDatedTable wraps t using the created_at and updated_at columns.
func NewDatedTable[E any](t *Table[E]) *DatedTable[E] {
	return &DatedTable[E]{
		Table:         t,
		CreatedColumn: "created_at",
		UpdatedColumn: "updated_at",
		Now:           time.Now,
	}
}

// SetCreatedAt stores at as the creation time of row id and returns the
// updated record. A missing row yields database.ErrRecordNotFound.
func (t *DatedTable[E]) SetCreatedAt(ctx context.Context, id int64, at time.Time) (E, error) {
	return t.setTime(ctx, t.CreatedColumn, id, at)
}

// SetUpdatedAt stores at as the modification time of row id and returns the
// updated record.
func (t *DatedTable[E]) SetUpdatedAt(ctx context.Context, id int64, at time.Time) (E, error) {
	return t.setTime(ctx, t.UpdatedColumn, id, at)
}

// RefreshUpdatedAt sets the modification time of row id to now.
func (t *DatedTable[E]) RefreshUpdatedAt(ctx context.Context, id int64) (E, error) {
	return t.setTime(ctx, t.UpdatedColumn, id, t.Now().UTC())
}

func (t *DatedTable[E]) setTime(ctx context.Context, column string, id int64, at time.Time) (E, error) {
	var zero E
	if id <= 0 {
		return zero, database.ErrRecordNotFound
	}

	// Drivers that count changed rows report zero for an unchanged value.
	// Existence is decided by the re-fetch.
	if _, err := t.db.Execute(ctx, "update "+t.Name+" set "+column+" = ? where id = ?",
		database.DateTimeParam(at), database.Int64(id)); err != nil {
		return zero, err
	}

	e, found, err := t.FindByID(ctx, id, database.ReadWrite)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, database.ErrRecordNotFound
	}
	return e, nil
}
