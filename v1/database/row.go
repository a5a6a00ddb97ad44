package database

import (
	"fmt"
	"sort"
	"time"
)

// Row is one materialized result row. It holds converted values only, never
// driver resources, and is safe to keep after the query returned.
type Row struct {
	columns []string
	values  map[string]any
}

func newRow(results []Result, values map[string]any) Row {
	columns := make([]string, len(results))
	for i, r := range results {
		columns[i] = r.Name
	}
	return Row{columns: columns, values: values}
}

// NewRow builds a Row from column values. Nil values are treated as NULL.
// It is meant for tests and for callers assembling rows by hand; its columns
// are declared in name order.
func NewRow(values map[string]any) Row {
	row := Row{values: make(map[string]any, len(values))}
	for name, v := range values {
		row.columns = append(row.columns, name)
		if v != nil {
			row.values[name] = v
		}
	}
	sort.Strings(row.columns)
	return row
}

// Columns returns the declared column names in select order.
func (r Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Has reports whether column holds a non-NULL value.
func (r Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

func (r Row) declared(column string) bool {
	for _, c := range r.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Value returns the raw converted value of column, or nil for NULL.
func (r Row) Value(column string) (any, error) {
	if !r.declared(column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return r.values[column], nil
}

// Get returns column as T. NULL or a value of another type yields
// *TypeMismatchError.
func Get[T any](r Row, column string) (T, error) {
	var zero T
	v, err := r.Value(column)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{Column: column, Expected: fmt.Sprintf("%T", zero), Actual: v}
	}
	return typed, nil
}

// GetOrNull returns column as *T, nil for NULL. A value of another type
// yields *TypeMismatchError.
func GetOrNull[T any](r Row, column string) (*T, error) {
	v, err := r.Value(column)
	if err != nil || v == nil {
		return nil, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return nil, &TypeMismatchError{Column: column, Expected: fmt.Sprintf("%T", zero), Actual: v}
	}
	return &typed, nil
}

// Typed accessors for non-NULL columns. Each is Get with the Go type of the
// matching Type; NULL, an undeclared column or a different type is an error.
func (r Row) Bool(column string) (bool, error)          { return Get[bool](r, column) }
func (r Row) Date(column string) (Date, error)          { return Get[Date](r, column) }
func (r Row) Time(column string) (TimeOfDay, error)     { return Get[TimeOfDay](r, column) }
func (r Row) DateTime(column string) (time.Time, error) { return Get[time.Time](r, column) }
func (r Row) Float32(column string) (float32, error)    { return Get[float32](r, column) }
func (r Row) Float64(column string) (float64, error)    { return Get[float64](r, column) }
func (r Row) Int16(column string) (int16, error)        { return Get[int16](r, column) }
func (r Row) Int32(column string) (int32, error)        { return Get[int32](r, column) }
func (r Row) Int64(column string) (int64, error)        { return Get[int64](r, column) }
func (r Row) Text(column string) (string, error)        { return Get[string](r, column) }

// Typed accessors for nullable columns. Each is GetOrNull with the Go type of
// the matching Type and returns nil for NULL.
func (r Row) BoolOrNull(column string) (*bool, error)      { return GetOrNull[bool](r, column) }
func (r Row) DateOrNull(column string) (*Date, error)      { return GetOrNull[Date](r, column) }
func (r Row) TimeOrNull(column string) (*TimeOfDay, error) { return GetOrNull[TimeOfDay](r, column) }
func (r Row) DateTimeOrNull(column string) (*time.Time, error) {
	return GetOrNull[time.Time](r, column)
}
func (r Row) Float32OrNull(column string) (*float32, error) { return GetOrNull[float32](r, column) }
func (r Row) Float64OrNull(column string) (*float64, error) { return GetOrNull[float64](r, column) }
func (r Row) Int16OrNull(column string) (*int16, error)     { return GetOrNull[int16](r, column) }
func (r Row) Int32OrNull(column string) (*int32, error)     { return GetOrNull[int32](r, column) }
func (r Row) Int64OrNull(column string) (*int64, error)     { return GetOrNull[int64](r, column) }
func (r Row) TextOrNull(column string) (*string, error)     { return GetOrNull[string](r, column) }
