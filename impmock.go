// Package impmock provides mocks for Go interfaces whose behavior is configured by describing
// calls as expressions:
//
//	calc := impmock.New[Calculator](t, factory)
//	calc.Setup(func(x *expr.Parameter) expr.Node {
//	    return x.Call("Add", match.Any[int](), 3)
//	}).Returns(5)
//
//	calc.Object().Add(2, 3) // 5
//
// Proxies come from impgen, which writes an adapter and a Register function per interface.
//
// This is the public API entry point. Implementation lives in internal/core.
package impmock

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"

	"github.com/toejough/impmock/expr"
	"github.com/toejough/impmock/internal/core"
)

// Types re-exported from internal/core.

// Behavior selects what a mock does with calls no setup handles.
type Behavior = core.Behavior

// DefaultValueProvider supplies results for calls without a configured result.
type DefaultValueProvider = core.DefaultValueProvider

// EmptyDefaults returns empty collections and zero values.
type EmptyDefaults = core.EmptyDefaults

// Error is what configuration and expectation failures are reported with.
type Error = core.Error

// Interceptor receives every call made on a proxy.
type Interceptor = core.Interceptor

// Invocation records one call made on a proxy.
type Invocation = core.Invocation

// MockDefaults returns inner mocks for mockable interface results.
type MockDefaults = core.MockDefaults

// Option configures a mock.
type Option = core.Option

// PropertyStub makes a property remember the last value written to it.
type PropertyStub = core.PropertyStubSetup

// Reason is the stable identifier of a failure's cause, such as "no-setup".
type Reason = core.Reason

// ProxyConstructor builds a proxy around an interceptor.
type ProxyConstructor = core.ProxyConstructor

// ProxyFactory creates proxies for registered interface types.
type ProxyFactory = core.ProxyFactory

// TestReporter is the minimal interface impmock needs from test frameworks.
type TestReporter = core.TestReporter

// Timer abstracts time-based operations for testability.
type Timer = core.Timer

// Times bounds how often a verified call may have happened.
type Times = core.Times

// Behavior values.
const (
	Loose  = core.Loose
	Strict = core.Strict
)

// Exported variables.
var (
	ErrExpectationFailed     = core.ErrExpectationFailed
	ErrUnsupportedExpression = core.ErrUnsupportedExpression
	ErrUsage                 = core.ErrUsage
)

// Functions re-exported from internal/core.

// AtLeast accepts n or more calls.
func AtLeast(n int) Times { return core.AtLeast(n) }

// AtLeastOnce accepts one or more calls.
func AtLeastOnce() Times { return core.AtLeastOnce() }

// AtMost accepts at most n calls.
func AtMost(n int) Times { return core.AtMost(n) }

// Between accepts lo to hi calls, inclusive.
func Between(lo, hi int) Times { return core.Between(lo, hi) }

// Exactly accepts exactly n calls.
func Exactly(n int) Times { return core.Exactly(n) }

// Never accepts no calls.
func Never() Times { return core.Never() }

// Once accepts exactly one call.
func Once() Times { return core.Once() }

// NewProxyFactory returns an empty factory.
func NewProxyFactory() *ProxyFactory {
	return core.NewProxyFactory()
}

// WithBehavior sets the mock's behavior. The default is Loose.
func WithBehavior(behavior Behavior) Option { return core.WithBehavior(behavior) }

// WithDefaultValue sets the provider of default results.
func WithDefaultValue(provider DefaultValueProvider) Option { return core.WithDefaultValue(provider) }

// WithLoggers sets the loggers interception and resolution are reported to.
func WithLoggers(loggers ldlog.Loggers) Option { return core.WithLoggers(loggers) }

// WithName replaces the generated mock name.
func WithName(name string) Option { return core.WithName(name) }

// WithTarget sets the real implementation CallsThrough forwards to.
func WithTarget(target any) Option { return core.WithTarget(target) }

// WithTimer replaces the timer delays wait on.
func WithTimer(timer Timer) Option { return core.WithTimer(timer) }

// StringMethod describes the String method every proxy routes through its interceptor.
func StringMethod() *expr.Method {
	return expr.StringMethod()
}
