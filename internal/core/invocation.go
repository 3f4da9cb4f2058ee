package core

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/toejough/impmock/expr"
)

// Invocation records one call made on a mock's proxy: the member called, its arguments and, once
// the interceptor has run, the outcome. The outcome is written at most once.
type Invocation struct {
	proxyType reflect.Type
	method    *expr.Method
	args      []any

	outcome outcomeKind
	values  []any
	raised  any

	matched  Setup
	verified atomic.Bool

	implOnce sync.Once
	impl     *expr.Method
}

// NewInvocation records a call of method with args on a proxy of type proxyType.
func NewInvocation(proxyType reflect.Type, method *expr.Method, args []any) *Invocation {
	return &Invocation{proxyType: proxyType, method: method, args: args}
}

// Arguments returns the call's arguments. A variadic method's trailing arguments arrive as one
// slice.
func (inv *Invocation) Arguments() []any {
	return inv.args
}

// ImplementingMethod returns the proxy type's own method implementing Method, or nil when the
// proxy type is unknown or does not implement it. The lookup runs once per invocation.
func (inv *Invocation) ImplementingMethod() *expr.Method {
	inv.implOnce.Do(func() {
		if inv.proxyType == nil {
			return
		}

		found, ok := inv.proxyType.MethodByName(inv.method.Name)
		if !ok {
			return
		}

		impl := expr.MethodOf(inv.proxyType, found)
		if impl.Signature() != inv.method.Signature() {
			return
		}

		impl.TypeArgs = inv.method.TypeArgs
		inv.impl = impl
	})

	return inv.impl
}

// IsVerified reports whether a verification has accounted for this invocation.
func (inv *Invocation) IsVerified() bool {
	return inv.verified.Load()
}

// MarkVerified records that a verification accounted for this invocation.
func (inv *Invocation) MarkVerified() {
	inv.verified.Store(true)
}

// MatchedSetup returns the setup that handled the invocation, or nil.
func (inv *Invocation) MatchedSetup() Setup {
	return inv.matched
}

// Method returns the descriptor of the member called.
func (inv *Invocation) Method() *expr.Method {
	return inv.method
}

// ProxyType returns the concrete type of the proxy the call was made on.
func (inv *Invocation) ProxyType() reflect.Type {
	return inv.proxyType
}

// Results converts the outcome into the method's result list. A raised error is delivered as the
// trailing error result when the method has one; other raised values, and framework failures,
// panic on the calling goroutine.
func (inv *Invocation) Results() []any {
	switch inv.outcome {
	case outcomeFailed:
		panic(inv.raised)
	case outcomeRaised:
		if err, ok := inv.raised.(error); ok && inv.method.ReturnsError() {
			results := zeroResults(inv.method)
			results[len(results)-1] = err

			return results
		}

		panic(inv.raised)
	case outcomeReturned:
		results := zeroResults(inv.method)
		copy(results, inv.values)

		return results
	default:
		return zeroResults(inv.method)
	}
}

// SetException records that the call raises value. value must not be nil.
func (inv *Invocation) SetException(value any) error {
	if value == nil {
		return usage(ReasonNilArgument, inv.String(), "exception value must not be nil")
	}

	return inv.setOutcome(outcomeRaised, nil, value)
}

// SetFailure records a framework failure, which Results panics with.
func (inv *Invocation) SetFailure(err error) error {
	if err == nil {
		return usage(ReasonNilArgument, inv.String(), "failure must not be nil")
	}

	return inv.setOutcome(outcomeFailed, nil, err)
}

// SetReturnValues records the call's results.
func (inv *Invocation) SetReturnValues(values ...any) error {
	return inv.setOutcome(outcomeReturned, values, nil)
}

// String renders the call the way diagnostics show it, such as Calculator.Add(2, 3).
func (inv *Invocation) String() string {
	return FormatCall(inv.method, inv.args)
}

// Failure returns the recorded framework failure, or nil.
func (inv *Invocation) Failure() error {
	if inv.outcome != outcomeFailed {
		return nil
	}

	err, _ := inv.raised.(error)

	return err
}

// HasOutcome reports whether an outcome has been recorded.
func (inv *Invocation) HasOutcome() bool {
	return inv.outcome != outcomeUnset
}

// Raised returns the recorded exception and whether one was recorded.
func (inv *Invocation) Raised() (any, bool) {
	return inv.raised, inv.outcome == outcomeRaised
}

// ReturnValues returns the recorded results and whether they were recorded.
func (inv *Invocation) ReturnValues() ([]any, bool) {
	return inv.values, inv.outcome == outcomeReturned
}

type outcomeKind int

const (
	outcomeUnset outcomeKind = iota
	outcomeReturned
	outcomeRaised
	outcomeFailed
)

// fail overwrites any outcome with a framework failure.
func (inv *Invocation) fail(err error) {
	inv.outcome, inv.values, inv.raised = outcomeFailed, nil, err
}

func (inv *Invocation) setOutcome(kind outcomeKind, values []any, raised any) error {
	if inv.outcome != outcomeUnset {
		return usage(ReasonOutcomeAlreadySet, inv.String(), "invocation outcome is already set")
	}

	inv.outcome, inv.values, inv.raised = kind, values, raised

	return nil
}

func zeroResults(method *expr.Method) []any {
	results := make([]any, len(method.Results))
	for i, resultType := range method.Results {
		results[i] = reflect.Zero(resultType).Interface()
	}

	return results
}
