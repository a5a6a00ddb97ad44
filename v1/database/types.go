package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Type is the closed set of SQL value kinds the executor binds and scans.
// Every Param and every Result carries exactly one Type; adding a kind means
// extending the constants below together with TypeOf and driverTypeOf.
type Type uint8

const (
	TypeBoolean Type = iota + 1
	TypeDate
	TypeTime
	TypeDateTime
	TypeFloat32
	TypeFloat64
	TypeInt16
	TypeInt32
	TypeInt64
	TypeText
)

var typeNames = map[Type]string{
	TypeBoolean:  "Boolean",
	TypeDate:     "Date",
	TypeTime:     "Time",
	TypeDateTime: "DateTime",
	TypeFloat32:  "Float32",
	TypeFloat64:  "Float64",
	TypeInt16:    "Int16",
	TypeInt32:    "Int32",
	TypeInt64:    "Int64",
	TypeText:     "Text",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Valid reports whether t is one of the ten known kinds.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// UnsupportedTypeError is returned when a Go value has no Type, when a
// value cannot be bound as the Type it was declared with, or when a Param or
// Result is declared with a Type outside the known set (Value is nil then).
type UnsupportedTypeError struct {
	Value any
	Type  Type
}

func (e *UnsupportedTypeError) Error() string {
	if e.Value == nil && !e.Type.Valid() {
		return fmt.Sprintf("database: unknown type %s", e.Type)
	}
	if e.Type == 0 {
		return fmt.Sprintf("database: unsupported value type %T", e.Value)
	}
	return fmt.Sprintf("database: value of type %T cannot be bound as %s", e.Value, e.Type)
}

// TypeOf maps a Go value to its Type.
//
//	bool      -> TypeBoolean
//	Date      -> TypeDate
//	TimeOfDay -> TypeTime
//	time.Time -> TypeDateTime
//	float32   -> TypeFloat32
//	float64   -> TypeFloat64
//	int16     -> TypeInt16
//	int32     -> TypeInt32
//	int64     -> TypeInt64
//	string    -> TypeText
//
// Any other value, including int and pointers, yields *UnsupportedTypeError.
func TypeOf(v any) (Type, error) {
	switch v.(type) {
	case bool:
		return TypeBoolean, nil
	case Date:
		return TypeDate, nil
	case TimeOfDay:
		return TypeTime, nil
	case time.Time:
		return TypeDateTime, nil
	case float32:
		return TypeFloat32, nil
	case float64:
		return TypeFloat64, nil
	case int16:
		return TypeInt16, nil
	case int32:
		return TypeInt32, nil
	case int64:
		return TypeInt64, nil
	case string:
		return TypeText, nil
	}
	return 0, &UnsupportedTypeError{Value: v}
}

// driverType converts between application values of one Type and the values
// exchanged with database/sql.
type driverType struct {
	bind    func(v any) (any, error)
	scanner func() columnScanner
}

// columnScanner is a scan destination that yields the application value.
// ok is false for SQL NULL.
type columnScanner interface {
	sql.Scanner
	result() (v any, ok bool, err error)
}

type nullable[T any] struct {
	sql.Null[T]
	convert func(T) (any, error)
}

func (n *nullable[T]) result() (any, bool, error) {
	if !n.Valid {
		return nil, false, nil
	}
	if n.convert == nil {
		return n.V, true, nil
	}
	v, err := n.convert(n.V)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func scannerOf[T any](convert func(T) (any, error)) func() columnScanner {
	return func() columnScanner {
		return &nullable[T]{convert: convert}
	}
}

// bindAs builds a bind function that accepts only values of type T.
func bindAs[T any](t Type, convert func(T) any) func(any) (any, error) {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		typed, ok := v.(T)
		if !ok {
			return nil, &UnsupportedTypeError{Value: v, Type: t}
		}
		if convert == nil {
			return typed, nil
		}
		return convert(typed), nil
	}
}

func driverTypeOf(t Type) (driverType, error) {
	switch t {
	case TypeBoolean:
		return driverType{
			bind:    bindAs[bool](t, nil),
			scanner: scannerOf[bool](nil),
		}, nil
	case TypeDate:
		return driverType{
			bind: bindAs(t, func(d Date) any { return d.Time() }),
			scanner: scannerOf(func(v time.Time) (any, error) {
				return DateOf(v), nil
			}),
		}, nil
	case TypeTime:
		return driverType{
			bind: bindAs(t, func(d TimeOfDay) any { return d.String() }),
			scanner: scannerOf(func(v string) (any, error) {
				return ParseTimeOfDay(v)
			}),
		}, nil
	case TypeDateTime:
		return driverType{
			bind:    bindAs[time.Time](t, nil),
			scanner: scannerOf[time.Time](nil),
		}, nil
	case TypeFloat32:
		return driverType{
			bind:    bindAs(t, func(f float32) any { return float64(f) }),
			scanner: scannerOf[float32](nil),
		}, nil
	case TypeFloat64:
		return driverType{
			bind:    bindAs[float64](t, nil),
			scanner: scannerOf[float64](nil),
		}, nil
	case TypeInt16:
		return driverType{
			bind:    bindAs(t, func(i int16) any { return int64(i) }),
			scanner: scannerOf[int16](nil),
		}, nil
	case TypeInt32:
		return driverType{
			bind:    bindAs(t, func(i int32) any { return int64(i) }),
			scanner: scannerOf[int32](nil),
		}, nil
	case TypeInt64:
		return driverType{
			bind:    bindAs[int64](t, nil),
			scanner: scannerOf[int64](nil),
		}, nil
	case TypeText:
		return driverType{
			bind:    bindAs[string](t, nil),
			scanner: scannerOf[string](nil),
		}, nil
	}
	return driverType{}, &UnsupportedTypeError{Type: t}
}
