// Package forge is the runtime support imported by builders generated with forgegen.
//
// Generated Build methods report missing fields as [UninitializedFieldError] values,
// `into` setters convert their argument with [MustConvert], try setters with [Convert],
// and the `default` option resolves the canonical default of a type with [Default].
package forge

import (
	"fmt"
	"reflect"

	"github.com/creasty/defaults"
)

// UninitializedFieldError is returned by a generated Build method for every
// required field that was never set.
type UninitializedFieldError struct {
	Field string
}

func (e UninitializedFieldError) Error() string {
	return fmt.Sprintf("forge: field %q must be initialized", e.Field)
}

// ConversionError reports a value that could not be converted to a field type.
type ConversionError struct {
	From reflect.Type
	To   reflect.Type
	// Lossy is set when the conversion exists but would not preserve the value.
	Lossy bool
}

func (e *ConversionError) Error() string {
	from := "<nil>"
	if e.From != nil {
		from = e.From.String()
	}
	if e.Lossy {
		return fmt.Sprintf("forge: converting %s to %s loses information", from, e.To)
	}
	return fmt.Sprintf("forge: cannot convert %s to %s", from, e.To)
}

// Defaulter is implemented by types that know their own default value.
type Defaulter[T any] interface {
	Default() T
}

// Default returns the canonical default of T: the result of its Default method
// when T implements [Defaulter], a struct populated from its `default` tags,
// or the zero value otherwise.
func Default[T any]() T {
	var v T
	if d, ok := any(v).(Defaulter[T]); ok {
		return d.Default()
	}
	if d, ok := any(&v).(Defaulter[T]); ok {
		return d.Default()
	}
	if reflect.TypeFor[T]().Kind() == reflect.Struct {
		defaults.MustSet(&v)
	}
	return v
}

// Convert converts value to T. Values that already are a T are returned as is,
// nil converts to the zero value of nillable types, and any other value must be
// convertible with package reflect without changing its numeric value.
func Convert[T any](value any) (T, error) {
	var zero T
	if v, ok := value.(T); ok {
		return v, nil
	}
	to := reflect.TypeFor[T]()
	if value == nil {
		if nillable(to.Kind()) {
			return zero, nil
		}
		return zero, &ConversionError{To: to}
	}
	rv := reflect.ValueOf(value)
	if !rv.CanConvert(to) || (to.Kind() == reflect.String && isInteger(rv.Kind())) {
		return zero, &ConversionError{From: rv.Type(), To: to}
	}
	out := rv.Convert(to)
	if isNumeric(rv.Kind()) && isNumeric(to.Kind()) && lossy(rv, out) {
		return zero, &ConversionError{From: rv.Type(), To: to, Lossy: true}
	}
	return out.Interface().(T), nil
}

// lossy reports whether converting in to out changed the numeric value.
func lossy(in, out reflect.Value) bool {
	switch {
	case isSigned(in.Kind()) && isUnsigned(out.Kind()):
		return in.Int() < 0 || in.Int() != int64(out.Uint())
	case isUnsigned(in.Kind()) && isSigned(out.Kind()):
		return out.Int() < 0 || in.Uint() != uint64(out.Int())
	}
	return !out.Convert(in.Type()).Equal(in)
}

// MustConvert is like [Convert] but panics when the conversion fails.
func MustConvert[T any](value any) T {
	v, err := Convert[T](value)
	if err != nil {
		panic(err)
	}
	return v
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k)
}

func isNumeric(k reflect.Kind) bool {
	return isInteger(k) || k == reflect.Float32 || k == reflect.Float64
}
