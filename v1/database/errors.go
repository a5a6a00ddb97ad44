package database

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Common database error types that can be used by consumers of this package.
// They abstract away the driver-specific error details.
var (
	// ErrRecordNotFound is returned when a lookup that must find a row finds none
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update violates a unique constraint
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrForeignKey is returned when an operation violates a foreign key constraint
	ErrForeignKey = errors.New("foreign key violation")

	// ErrInvalidData is returned when the data being saved doesn't meet validation rules
	ErrInvalidData = errors.New("invalid data")

	// ErrUnknownColumn is returned by Row accessors for a column that was not selected
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnknownDatabaseType is returned when the configured type is neither mysql nor postgres
	ErrUnknownDatabaseType = errors.New("unknown database type")

	// ErrNoTarget is returned when a statement is routed to a pool that was never opened
	ErrNoTarget = errors.New("no connection target configured")
)

// StatementError wraps a driver failure together with the statement text.
// errors.Is matches ErrDuplicateKey and ErrForeignKey when the dialect
// classified the driver error as such.
type StatementError struct {
	SQL    string
	Target string
	Err    error

	kind error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("database: statement on %s failed: %v", e.Target, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

func (e *StatementError) Is(target error) bool {
	return e.kind != nil && target == e.kind
}

// TypeMismatchError is returned by Row accessors when the stored value is
// absent or has a different Go type than requested.
type TypeMismatchError struct {
	Column   string
	Expected string
	Actual   any
}

func (e *TypeMismatchError) Error() string {
	if e.Actual == nil {
		return fmt.Sprintf("database: column %q is NULL, expected %s", e.Column, e.Expected)
	}
	return fmt.Sprintf("database: column %q holds %T, expected %s", e.Column, e.Actual, e.Expected)
}

// TranslateError converts GORM, database/sql and statement errors into the
// sentinels above. Unknown errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var stmtErr *StatementError
	if errors.As(err, &stmtErr) && stmtErr.kind != nil {
		return stmtErr.kind
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, sql.ErrNoRows):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, gorm.ErrInvalidData):
		return ErrInvalidData
	}

	return err
}
