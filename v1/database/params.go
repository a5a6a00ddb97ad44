package database

import (
	"fmt"
	"time"
)

// Param is a positional statement argument with its declared Type.
// A nil Value binds SQL NULL.
type Param struct {
	Value any
	Type  Type
}

// Result declares one selected column: its name in the result set and the
// Type it is read as.
type Result struct {
	Name string
	Type Type
}

func (p Param) String() string {
	if p.Value == nil {
		return fmt.Sprintf("NULL::%s", p.Type)
	}
	return fmt.Sprintf("%v::%s", p.Value, p.Type)
}

// P builds a Param from a value and an explicit Type.
func P(value any, t Type) Param {
	return Param{Value: value, Type: t}
}

// Arg builds a Param whose Type is derived with TypeOf.
func Arg(value any) (Param, error) {
	t, err := TypeOf(value)
	if err != nil {
		return Param{}, err
	}
	return Param{Value: value, Type: t}, nil
}

// MustArg is like Arg but panics when value has no Type.
func MustArg(value any) Param {
	p, err := Arg(value)
	if err != nil {
		panic(err)
	}
	return p
}

// R builds a Result.
func R(name string, t Type) Result {
	return Result{Name: name, Type: t}
}

// Typed Param constructors, one per Type. The value is bound as given; the
// Type only decides the driver conversion.
func Bool(v bool) Param           { return Param{Value: v, Type: TypeBoolean} }
func DateParam(v Date) Param      { return Param{Value: v, Type: TypeDate} }
func TimeParam(v TimeOfDay) Param { return Param{Value: v, Type: TypeTime} }
func DateTimeParam(v time.Time) Param {
	return Param{Value: v, Type: TypeDateTime}
}
func Float32(v float32) Param { return Param{Value: v, Type: TypeFloat32} }
func Float64(v float64) Param { return Param{Value: v, Type: TypeFloat64} }
func Int16(v int16) Param     { return Param{Value: v, Type: TypeInt16} }
func Int32(v int32) Param     { return Param{Value: v, Type: TypeInt32} }
func Int64(v int64) Param     { return Param{Value: v, Type: TypeInt64} }
func Text(v string) Param     { return Param{Value: v, Type: TypeText} }

// nullOf dereferences v, or returns a NULL Param of type t when v is nil.
func nullOf[T any](v *T, t Type) Param {
	if v == nil {
		return Param{Type: t}
	}
	return Param{Value: *v, Type: t}
}

// Nullable Param constructors: a nil pointer binds NULL of the named Type,
// anything else binds the pointed-to value.
func NullBool(v *bool) Param          { return nullOf(v, TypeBoolean) }
func NullDate(v *Date) Param          { return nullOf(v, TypeDate) }
func NullTime(v *TimeOfDay) Param     { return nullOf(v, TypeTime) }
func NullDateTime(v *time.Time) Param { return nullOf(v, TypeDateTime) }
func NullFloat32(v *float32) Param    { return nullOf(v, TypeFloat32) }
func NullFloat64(v *float64) Param    { return nullOf(v, TypeFloat64) }
func NullInt16(v *int16) Param        { return nullOf(v, TypeInt16) }
func NullInt32(v *int32) Param        { return nullOf(v, TypeInt32) }
func NullInt64(v *int64) Param        { return nullOf(v, TypeInt64) }
func NullText(v *string) Param        { return nullOf(v, TypeText) }

// bindParams converts params to driver arguments in placeholder order.
func bindParams(params []Param) ([]any, error) {
	args := make([]any, len(params))
	for i, p := range params {
		dt, err := driverTypeOf(p.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		args[i], err = dt.bind(p.Value)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
	}
	return args, nil
}
