package core

import (
	"reflect"
	"sync"

	"github.com/toejough/impmock/expr"
)

// PropertyStubSetup makes a property remember the last value written to it.
type PropertyStubSetup struct {
	setupBase

	property *expr.Property

	mu    sync.Mutex
	value reflect.Value
}

// Execute implements Setup: reads return the stored value and writes replace it.
func (s *PropertyStubSetup) Execute(inv *Invocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.property.Setter != nil && memberCompatible(s.property.Setter, inv) {
		s.value = argumentValue(inv.Arguments()[0], s.property.Type)

		return inv.SetReturnValues()
	}

	return inv.SetReturnValues(s.value.Interface())
}

// Value returns the property's current value.
func (s *PropertyStubSetup) Value() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.value.Interface()
}

// AllPropertiesStubSetup makes every property of a type remember the last value written to it.
// Properties read before any write return the mock's default value, which is then kept.
type AllPropertiesStubSetup struct {
	setupBase

	mock *Mock

	mu     sync.Mutex
	values map[string]reflect.Value
}

// Execute implements Setup.
func (s *AllPropertiesStubSetup) Execute(inv *Invocation) error {
	expectation, _ := s.expectation.(*AllPropertiesExpectation)

	prop := expectation.property(inv)
	if prop == nil {
		return expectationFailed(ReasonNoSetup, inv.String(), "%s is not a property", inv.Method())
	}

	s.mu.Lock()

	if prop.Setter != nil && memberCompatible(prop.Setter, inv) {
		s.values[prop.Name] = argumentValue(inv.Arguments()[0], prop.Type)
		s.mu.Unlock()

		return inv.SetReturnValues()
	}

	value, ok := s.values[prop.Name]
	if !ok {
		// the default provider may create inner mocks, which must not run under our lock
		s.mu.Unlock()
		value = s.mock.defaults.DefaultValue(prop.Type, s.mock)
		s.mu.Lock()

		if stored, raced := s.values[prop.Name]; raced {
			value = stored
		} else {
			s.values[prop.Name] = value
		}
	}

	s.mu.Unlock()

	return inv.SetReturnValues(value.Interface())
}

// NestedSetup answers a call with an inner mock, so setups on a chain such as x.A().B() can
// configure B on the object A returns.
type NestedSetup struct {
	setupBase

	inner *Mock
}

// Execute implements Setup.
func (s *NestedSetup) Execute(inv *Invocation) error {
	return inv.SetReturnValues(s.inner.Object())
}

// Inner returns the mock the setup returns.
func (s *NestedSetup) Inner() *Mock {
	return s.inner
}

func newAllPropertiesStubSetup(mock *Mock) *AllPropertiesStubSetup {
	return &AllPropertiesStubSetup{
		setupBase: setupBase{expectation: &AllPropertiesExpectation{model: expr.ModelOf(mock.mockedType)}},
		mock:      mock,
		values:    make(map[string]reflect.Value),
	}
}

func newPropertyStubSetup(mock *Mock, property *expr.Property, initial reflect.Value) *PropertyStubSetup {
	return &PropertyStubSetup{
		setupBase: setupBase{expectation: &PropertyExpectation{property: property, owner: mock.mockedType}},
		property:  property,
		value:     initial,
	}
}

// argumentValue returns arg as a value of type t, the zero value for nil.
func argumentValue(arg any, t reflect.Type) reflect.Value {
	if arg == nil {
		return reflect.Zero(t)
	}

	val := reflect.ValueOf(arg)
	if t.Kind() == reflect.Interface {
		converted := reflect.New(t).Elem()
		converted.Set(val)

		return converted
	}

	return val
}
