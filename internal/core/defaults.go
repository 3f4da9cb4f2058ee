package core

import (
	"reflect"

	"github.com/toejough/impmock/expr"
)

// DefaultValueProvider supplies the values returned by calls that no setup handles in loose mode.
type DefaultValueProvider interface {
	DefaultValue(t reflect.Type, mock *Mock) reflect.Value
}

// EmptyDefaults returns empty collections and sequences, recursively defaulted anonymous structs,
// and zero values for everything else.
type EmptyDefaults struct{}

// DefaultValue implements DefaultValueProvider.
func (EmptyDefaults) DefaultValue(t reflect.Type, _ *Mock) reflect.Value {
	return DefaultValue(t)
}

// MockDefaults behaves like EmptyDefaults, but returns a mock for interface types the mock's
// factory can generate. A mock hands out one inner mock per interface type.
type MockDefaults struct{}

// DefaultValue implements DefaultValueProvider.
func (MockDefaults) DefaultValue(t reflect.Type, mock *Mock) reflect.Value {
	if t.Kind() == reflect.Interface && mock != nil && mock.factory.CanGenerate(t) {
		inner, err := mock.defaultMock(t)
		if err == nil {
			return reflect.ValueOf(inner.Object())
		}
	}

	return DefaultValue(t)
}

// DefaultValue returns the default for t: an empty slice or map, an empty iterator for
// iter.Seq-shaped functions, a closed channel for receivable channels, an anonymous struct with
// defaulted fields, and the zero value otherwise.
func DefaultValue(t reflect.Type) reflect.Value {
	switch t.Kind() { //nolint:exhaustive // every other kind defaults to its zero value
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0)
	case reflect.Map:
		return reflect.MakeMap(t)
	case reflect.Func:
		if isSequence(t) {
			return reflect.MakeFunc(t, func([]reflect.Value) []reflect.Value { return nil })
		}
	case reflect.Chan:
		if t.ChanDir()&reflect.RecvDir != 0 {
			channel := reflect.MakeChan(reflect.ChanOf(reflect.BothDir, t.Elem()), 0)
			channel.Close()

			return channel.Convert(t)
		}
	case reflect.Struct:
		if t.Name() == "" {
			return defaultTuple(t)
		}
	}

	return reflect.Zero(t)
}

// DefaultResults returns provider's default for every result of method.
func DefaultResults(method *expr.Method, provider DefaultValueProvider, mock *Mock) []any {
	results := make([]any, len(method.Results))
	for i, resultType := range method.Results {
		results[i] = provider.DefaultValue(resultType, mock).Interface()
	}

	return results
}

func defaultTuple(t reflect.Type) reflect.Value {
	tuple := reflect.New(t).Elem()

	for i := range t.NumField() {
		if field := tuple.Field(i); field.CanSet() {
			field.Set(DefaultValue(t.Field(i).Type))
		}
	}

	return tuple
}

// isSequence reports whether t has the shape of iter.Seq or iter.Seq2: func(yield func(...) bool).
func isSequence(t reflect.Type) bool {
	if t.NumIn() != 1 || t.NumOut() != 0 || t.IsVariadic() {
		return false
	}

	yield := t.In(0)

	return yield.Kind() == reflect.Func && yield.NumOut() == 1 && yield.Out(0).Kind() == reflect.Bool
}
