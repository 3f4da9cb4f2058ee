package impmock

import (
	"reflect"

	"github.com/toejough/impmock/expr"
	"github.com/toejough/impmock/internal/core"
)

// Mock is a mock of the interface T. Configuration errors fail the test through its TestReporter.
type Mock[T any] struct {
	t    TestReporter
	mock *core.Mock
}

// New creates a mock of T with a proxy from factory. T must be registered with factory.
func New[T any](t TestReporter, factory *ProxyFactory, opts ...Option) *Mock[T] {
	t.Helper()

	mock, err := core.NewMock(reflect.TypeFor[T](), factory, opts...)
	if err != nil {
		t.Fatalf("%v", err)

		return nil
	}

	return &Mock[T]{t: t, mock: mock}
}

// As returns the mock's proxy as U, one of the extra interfaces its proxy implements.
func As[U, T any](m *Mock[T]) U {
	m.t.Helper()

	viewed, err := m.mock.As(reflect.TypeFor[U]())
	if err != nil {
		m.t.Fatalf("%v", err)

		var zero U

		return zero
	}

	return viewed.(U) //nolint:forcetypeassert // As checked the proxy implements U
}

// SetupAs is Mock.Setup for a member of U, one of the extra interfaces the mock's proxy implements.
func SetupAs[U, T any](m *Mock[T], build func(x *expr.Parameter) expr.Node) *Setup {
	m.t.Helper()

	created, err := m.mock.Setup(expr.Fn(reflect.TypeFor[U](), build), nil)
	if err != nil {
		m.t.Fatalf("%v", err)

		return &Setup{t: m.t}
	}

	return &Setup{t: m.t, setup: created}
}

// Behavior returns the mock's behavior.
func (m *Mock[T]) Behavior() Behavior {
	return m.mock.Behavior()
}

// Invocations returns the calls made on the mock, in order.
func (m *Mock[T]) Invocations() []*Invocation {
	return m.mock.Invocations()
}

// Name returns the mock's name.
func (m *Mock[T]) Name() string {
	return m.mock.Name()
}

// Object returns the proxy to hand to the code under test.
func (m *Mock[T]) Object() T {
	return m.mock.Object().(T) //nolint:forcetypeassert // the factory checked the proxy implements T
}

// Reset forgets every setup and every recorded call.
func (m *Mock[T]) Reset() {
	m.mock.Reset()
}

// ResetCalls forgets every recorded call.
func (m *Mock[T]) ResetCalls() {
	m.mock.ResetCalls()
}

// Setup configures the calls build describes. build receives the mock as x and returns a member
// access on it, such as x.Call("Add", 1, match.Any[int]()).
func (m *Mock[T]) Setup(build func(x *expr.Parameter) expr.Node) *Setup {
	m.t.Helper()

	return m.setup(build, nil)
}

// SetupAllProperties makes every property of T remember the last value written to it.
func (m *Mock[T]) SetupAllProperties() *Mock[T] {
	m.mock.SetupAllProperties()

	return m
}

// SetupProperty makes the named property remember the last value written to it, starting from
// initial when given.
func (m *Mock[T]) SetupProperty(name string, initial ...any) *PropertyStub {
	m.t.Helper()

	stub, err := m.mock.SetupProperty(name, initial...)
	if err != nil {
		m.t.Fatalf("%v", err)
	}

	return stub
}

// Verify fails the test unless the calls build describes happened times times, at least once
// when times is omitted.
func (m *Mock[T]) Verify(build func(x *expr.Parameter) expr.Node, times ...Times) {
	m.t.Helper()

	expected := AtLeastOnce()
	if len(times) > 0 {
		expected = times[0]
	}

	if err := m.mock.Verify(expr.Fn(reflect.TypeFor[T](), build), expected); err != nil {
		m.t.Fatalf("%v", err)
	}
}

// VerifyAll fails the test unless every active setup matched a call.
func (m *Mock[T]) VerifyAll() {
	m.t.Helper()

	if err := m.mock.VerifyAll(); err != nil {
		m.t.Fatalf("%v", err)
	}
}

// VerifyNoOtherCalls fails the test if a call was neither verified nor handled by a verifiable
// setup.
func (m *Mock[T]) VerifyNoOtherCalls() {
	m.t.Helper()

	if err := m.mock.VerifyNoOtherCalls(); err != nil {
		m.t.Fatalf("%v", err)
	}
}

// VerifyVerifiable fails the test unless every setup marked Verifiable matched a call.
func (m *Mock[T]) VerifyVerifiable() {
	m.t.Helper()

	if err := m.mock.VerifyVerifiable(); err != nil {
		m.t.Fatalf("%v", err)
	}
}

// When starts a setup that only applies while condition returns true.
func (m *Mock[T]) When(condition func() bool) *Conditional[T] {
	return &Conditional[T]{mock: m, condition: condition}
}

func (m *Mock[T]) setup(build func(x *expr.Parameter) expr.Node, condition core.Condition) *Setup {
	m.t.Helper()

	created, err := m.mock.Setup(expr.Fn(reflect.TypeFor[T](), build), condition)
	if err != nil {
		m.t.Fatalf("%v", err)

		return &Setup{t: m.t}
	}

	return &Setup{t: m.t, setup: created}
}

// Conditional creates setups gated by a condition.
type Conditional[T any] struct {
	mock      *Mock[T]
	condition func() bool
}

// Setup is Mock.Setup for calls made while the condition holds.
func (c *Conditional[T]) Setup(build func(x *expr.Parameter) expr.Node) *Setup {
	c.mock.t.Helper()

	return c.mock.setup(build, c.condition)
}
