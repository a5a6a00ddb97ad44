package database

import (
	"context"
	"database/sql"
	"time"
)

// Isolation is a transaction isolation level, passed to the driver unchanged.
type Isolation uint8

const (
	// IsolationDefault uses the driver's default level.
	IsolationDefault Isolation = iota
	ReadUncommitted
	ReadCommitted
	RepeatableRead
	Serializable
)

func (i Isolation) level() sql.IsolationLevel {
	switch i {
	case ReadUncommitted:
		return sql.LevelReadUncommitted
	case ReadCommitted:
		return sql.LevelReadCommitted
	case RepeatableRead:
		return sql.LevelRepeatableRead
	case Serializable:
		return sql.LevelSerializable
	}
	return sql.LevelDefault
}

func (i Isolation) String() string {
	return i.level().String()
}

type txKey struct{}

type txState struct {
	db *Database
	tx *sql.Tx
}

// txFrom returns the transaction of d carried by ctx.
func (d *Database) txFrom(ctx context.Context) (*sql.Tx, bool) {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok || state.db != d {
		return nil, false
	}
	return state.tx, true
}

// InTransaction reports whether ctx carries a transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*txState)
	return ok
}

// WithTransaction runs fn inside a transaction on the primary.
//
// When ctx already carries a transaction of d, fn joins it and no new
// boundary is created. Otherwise the transaction is committed when fn returns
// nil and rolled back when fn returns an error, which is returned unchanged.
// A panic in fn rolls back and is re-raised.
//
// Statements must use the ctx passed to fn to run inside the transaction:
//
//	err := db.WithTransaction(ctx, database.ReadCommitted, func(ctx context.Context) error {
//	    if _, err := db.Execute(ctx, "update accounts set balance = balance - ? where id = ?",
//	        database.Int64(amount), database.Int64(from)); err != nil {
//	        return err
//	    }
//	    _, err := db.Execute(ctx, "update accounts set balance = balance + ? where id = ?",
//	        database.Int64(amount), database.Int64(to))
//	    return err
//	})
func (d *Database) WithTransaction(ctx context.Context, isolation Isolation, fn func(ctx context.Context) error) error {
	if _, ok := d.txFrom(ctx); ok {
		return fn(ctx)
	}

	primary := d.router.Primary()
	if primary.DB == nil {
		return ErrNoTarget
	}

	start := time.Now()
	tx, err := primary.DB.BeginTx(ctx, &sql.TxOptions{Isolation: isolation.level()})
	if err != nil {
		return d.statementError("BEGIN", primary.Name, err)
	}
	defer func() {
		d.recordUsage(ctx, primary.Name, time.Since(start))
	}()

	defer func() {
		if r := recover(); r != nil {
			if err := tx.Rollback(); err != nil {
				d.logger.Error("failed to roll back transaction after panic", err, nil)
			}
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, &txState{db: d, tx: tx})); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.logger.Warn("failed to roll back transaction", rbErr, map[string]interface{}{
				"cause": err.Error(),
			})
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return d.statementError("COMMIT", primary.Name, err)
	}
	return nil
}

// Transaction is WithTransaction for functions that produce a value. The
// zero value of T is returned when the transaction fails.
func Transaction[T any](ctx context.Context, d *Database, isolation Isolation, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := d.WithTransaction(ctx, isolation, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
