package database

import (
	"context"
	"database/sql"
	"time"
)

// session is what a statement is prepared on: a borrowed *sql.Conn or the
// *sql.Tx carried by the context.
type session interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// withTarget runs fn on a session of t. A transaction carried by ctx is used
// when t is the primary; otherwise a connection is borrowed from t's pool and
// released before withTarget returns.
func (d *Database) withTarget(ctx context.Context, t Target, fn func(s session) error) error {
	if tx, ok := d.txFrom(ctx); ok && d.router.isPrimary(t) {
		return fn(tx)
	}
	if t.DB == nil {
		return ErrNoTarget
	}

	start := time.Now()
	conn, err := t.DB.Conn(ctx)
	if err != nil {
		return d.statementError("", t.Name, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			d.logger.Warn("failed to release connection", err, map[string]interface{}{
				"target": t.Name,
			})
		}
		d.recordUsage(ctx, t.Name, time.Since(start))
	}()

	return fn(conn)
}

// Execute runs a data-modifying statement on the primary and returns the
// number of affected rows. Driver failures are returned as *StatementError
// and are never retried.
func (d *Database) Execute(ctx context.Context, query string, params ...Param) (affected int64, err error) {
	start := time.Now()
	defer func() { d.recordStatement("execute", start, err) }()

	d.logStatement(ctx, query, params)
	args, err := bindParams(params)
	if err != nil {
		return 0, err
	}

	target := d.router.Target(ReadWrite)
	err = d.withTarget(ctx, target, func(s session) error {
		stmt, err := s.PrepareContext(ctx, d.dialect.Rebind(query))
		if err != nil {
			return d.statementError(query, target.Name, err)
		}
		defer stmt.Close()

		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return d.statementError(query, target.Name, err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return d.statementError(query, target.Name, err)
		}
		return nil
	})
	return affected, err
}

// Query runs a statement on the pool selected by mode and materializes every
// row. Columns are read positionally as declared by results; SQL NULL leaves
// the column absent from the Row. An empty, non-nil slice is returned when
// nothing matches.
func (d *Database) Query(ctx context.Context, query string, params []Param, results []Result, mode Mode) ([]Row, error) {
	return d.query(ctx, d.router.Target(mode), query, params, results)
}

func (d *Database) query(ctx context.Context, target Target, query string, params []Param, results []Result) (rows []Row, err error) {
	start := time.Now()
	defer func() { d.recordStatement("query", start, err) }()

	d.logStatement(ctx, query, params)
	args, err := bindParams(params)
	if err != nil {
		return nil, err
	}
	types := make([]driverType, len(results))
	for i, r := range results {
		if types[i], err = driverTypeOf(r.Type); err != nil {
			return nil, err
		}
	}

	err = d.withTarget(ctx, target, func(s session) error {
		stmt, err := s.PrepareContext(ctx, d.dialect.Rebind(query))
		if err != nil {
			return d.statementError(query, target.Name, err)
		}
		defer stmt.Close()

		rs, err := stmt.QueryContext(ctx, args...)
		if err != nil {
			return d.statementError(query, target.Name, err)
		}
		defer rs.Close()

		rows = make([]Row, 0)
		scanners := make([]columnScanner, len(results))
		dest := make([]any, len(results))
		for rs.Next() {
			for i, dt := range types {
				scanners[i] = dt.scanner()
				dest[i] = scanners[i]
			}
			if err := rs.Scan(dest...); err != nil {
				return d.statementError(query, target.Name, err)
			}

			values := make(map[string]any, len(results))
			for i, r := range results {
				v, ok, err := scanners[i].result()
				if err != nil {
					return d.statementError(query, target.Name, err)
				}
				if ok {
					values[r.Name] = v
				}
			}
			rows = append(rows, newRow(results, values))
		}
		if err := rs.Err(); err != nil {
			return d.statementError(query, target.Name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// QueryOne returns the first row of Query, if any.
func (d *Database) QueryOne(ctx context.Context, query string, params []Param, results []Result, mode Mode) (Row, bool, error) {
	rows, err := d.Query(ctx, query, params, results, mode)
	if err != nil || len(rows) == 0 {
		return Row{}, false, err
	}
	return rows[0], true, nil
}

// QueryInt reads a single Int32 column named "value" from the first row on
// the primary. It returns 0 when there is no row or the value is NULL.
func (d *Database) QueryInt(ctx context.Context, query string, params ...Param) (int, error) {
	return d.queryInt(ctx, query, params, ReadWrite)
}

// QueryIntReadOnly is QueryInt routed to a read replica.
func (d *Database) QueryIntReadOnly(ctx context.Context, query string, params ...Param) (int, error) {
	return d.queryInt(ctx, query, params, Read)
}

func (d *Database) queryInt(ctx context.Context, query string, params []Param, mode Mode) (int, error) {
	rows, err := d.Query(ctx, query, params, []Result{R("value", TypeInt32)}, mode)
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	v, err := rows[0].Int32OrNull("value")
	if err != nil || v == nil {
		return 0, err
	}
	return int(*v), nil
}

// QueryIDs reads a single Int64 column named "id" from every row on the
// primary, preserving row order.
func (d *Database) QueryIDs(ctx context.Context, query string, params ...Param) ([]int64, error) {
	return d.queryIDs(ctx, query, params, ReadWrite)
}

// QueryIDsReadOnly is QueryIDs routed to a read replica.
func (d *Database) QueryIDsReadOnly(ctx context.Context, query string, params ...Param) ([]int64, error) {
	return d.queryIDs(ctx, query, params, Read)
}

func (d *Database) queryIDs(ctx context.Context, query string, params []Param, mode Mode) ([]int64, error) {
	rows, err := d.Query(ctx, query, params, []Result{R("id", TypeInt64)}, mode)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		id, err := row.Int64("id")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// QueryReadOnly is Query pinned to Read.
func (d *Database) QueryReadOnly(ctx context.Context, query string, params []Param, results []Result) ([]Row, error) {
	return d.Query(ctx, query, params, results, Read)
}

// Connected reports whether the primary answers a trivial query. Errors are
// logged, never returned.
func (d *Database) Connected(ctx context.Context) bool {
	return d.probe(ctx, d.router.Primary())
}

// probe runs outside the statement path: health checks are neither logged as
// statements nor counted by the StatementRecorder.
func (d *Database) probe(ctx context.Context, t Target) bool {
	var ok bool
	err := d.withTarget(ctx, t, func(s session) error {
		stmt, err := s.PrepareContext(ctx, "select 1")
		if err != nil {
			return err
		}
		defer stmt.Close()
		return stmt.QueryRowContext(ctx).Scan(&ok)
	})
	if err != nil {
		d.logger.Warn("database connectivity check failed", err, map[string]interface{}{
			"target": t.Name,
		})
		return false
	}
	return ok
}

func (d *Database) logStatement(ctx context.Context, query string, params []Param) {
	rendered := make([]string, len(params))
	for i, p := range params {
		rendered[i] = p.String()
	}
	fields := map[string]interface{}{
		"sql":    query,
		"params": rendered,
	}
	if cl, ok := d.logger.(contextLogger); ok {
		cl.DebugWithContext(ctx, "executing statement", nil, fields)
		return
	}
	d.logger.Debug("executing statement", nil, fields)
}

func (d *Database) recordUsage(ctx context.Context, target string, elapsed time.Duration) {
	for _, t := range d.trackers {
		t.RecordConnectionUsage(ctx, target, elapsed)
	}
}

func (d *Database) recordStatement(kind string, start time.Time, err error) {
	if d.statements != nil {
		d.statements.RecordStatement(kind, start, err)
	}
}

func (d *Database) statementError(query, target string, err error) error {
	return &StatementError{
		SQL:    query,
		Target: target,
		Err:    err,
		kind:   d.dialect.classify(err),
	}
}
