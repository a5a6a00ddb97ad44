// Package database is a typed data-access layer over database/sql.
//
// Statements are plain SQL with ? placeholders. Parameters and expected result
// columns are declared with one of ten Types, so values are bound and read
// without reflection:
//
//	rows, err := db.Query(ctx,
//	    "select id, name, created_at from users where name = ?",
//	    []database.Param{database.Text("alice")},
//	    []database.Result{
//	        database.R("id", database.TypeInt64),
//	        database.R("name", database.TypeText),
//	        database.R("created_at", database.TypeDateTime),
//	    },
//	    database.Read,
//	)
//
// # Routing
//
// A Router holds one primary pool and any number of read replicas. ReadWrite
// statements always use the primary. Read statements rotate over the replicas
// in round robin and fall back to the primary when none are configured, which
// is also the case in the "local" environment.
//
// Every statement borrows a connection, and the connection is released before
// the call returns. The borrow time is reported to each UsageTracker;
// metrics.Metrics and tracer.Tracer both implement it.
//
// # Types
//
//	TypeBoolean   bool
//	TypeDate      Date
//	TypeTime      TimeOfDay
//	TypeDateTime  time.Time
//	TypeFloat32   float32
//	TypeFloat64   float64
//	TypeInt16     int16
//	TypeInt32     int32
//	TypeInt64     int64
//	TypeText      string
//
// SQL NULL is bound from a Param with a nil Value and read back as an absent
// column: non-null Row accessors fail with *TypeMismatchError, the OrNull
// accessors return nil.
//
// # Transactions
//
// WithTransaction carries the transaction in the context passed to its
// callback. Statements issued with that context against the primary run
// inside the transaction, and nested WithTransaction calls join it.
//
// # Dialects
//
// PostgreSQL statements have their ? placeholders rewritten to $n. Driver
// errors for unique and foreign key violations match ErrDuplicateKey and
// ErrForeignKey through errors.Is on the returned *StatementError.
package database
