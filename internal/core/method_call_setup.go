package core

import (
	"reflect"
	"time"

	"github.com/toejough/impmock/expr"
)

// MethodCallSetup configures how a mock answers calls matching one MethodExpectation. Calls run
// its behaviors in order: the execution limit, the callback registered before a return policy,
// the delay, the return or throw policy (or the next sequence step), the callback registered
// after it, and finally the mock's fallback when nothing produced an outcome.
type MethodCallSetup struct {
	setupBase

	mock   *Mock
	method *expr.Method
	limit  *executionLimit
	before *callable
	after  *callable
	result behavior
	delay  time.Duration
}

// Execute runs the setup's behaviors for inv.
func (s *MethodCallSetup) Execute(inv *Invocation) error {
	if s.limit != nil {
		if err := s.limit.check(inv); err != nil {
			return err
		}
	}

	if s.before != nil {
		s.before.call(inv.Arguments())
	}

	if s.delay > 0 {
		<-s.mock.timer.After(s.delay)
	}

	handled := false

	if s.result != nil {
		var err error

		handled, err = s.result.execute(s, inv)
		if err != nil {
			return err
		}
	}

	if _, raised := inv.Raised(); raised {
		return nil
	}

	if !handled {
		return s.mock.fallback(inv)
	}

	if s.after != nil {
		s.after.call(inv.Arguments())
	}

	return nil
}

// Method returns the member the setup answers.
func (s *MethodCallSetup) Method() *expr.Method {
	return s.method
}

// Mock returns the mock the setup belongs to.
func (s *MethodCallSetup) Mock() *Mock {
	return s.mock
}

// SetCallback registers fn to run on every matching call. fn takes either no arguments or the
// method's arguments, and returns nothing. Registered before a return policy it runs before the
// result is produced; registered after, it runs once the result is set, unless the call raised
// or the policy left it unanswered.
func (s *MethodCallSetup) SetCallback(fn any) error {
	cb, err := newCallable(fn, s.method, s.String())
	if err != nil {
		return err
	}

	if cb.fn.Type().NumOut() != 0 {
		return usage(ReasonCallbackSignature, s.String(), "callback must not return values, got %s", cb.fn.Type())
	}

	slot := &s.before
	if s.result != nil {
		slot = &s.after
	}

	if *slot != nil {
		return usage(ReasonDuplicateCallback, s.String(), "callback is already set")
	}

	*slot = &cb

	return nil
}

// SetDelay makes matching calls wait d on the mock's timer before producing their result.
func (s *MethodCallSetup) SetDelay(d time.Duration) error {
	if d < 0 {
		return usage(ReasonInvalidArgument, s.String(), "delay must not be negative, got %s", d)
	}

	s.delay = d

	return nil
}

// SetLimit fails every matching call after the first n.
func (s *MethodCallSetup) SetLimit(n int) error {
	if n <= 0 {
		return usage(ReasonInvalidArgument, s.String(), "execution limit must be positive, got %d", n)
	}

	s.limit = &executionLimit{max: int64(n)}

	return nil
}

// SetNoOp makes matching calls return default results.
func (s *MethodCallSetup) SetNoOp() error {
	return s.setResult(noOp{})
}

// SetProceed makes matching calls forward to the mock's target.
func (s *MethodCallSetup) SetProceed() error {
	if s.mock.target == nil {
		return usage(ReasonNoTarget, s.String(), "calling through requires a mock created with a target")
	}

	return s.setResult(proceed{})
}

// SetReturns makes matching calls return values, one per method result. Literals convert to the
// result types the way Go converts untyped constants.
func (s *MethodCallSetup) SetReturns(values ...any) error {
	converted, err := convertResults(values, s.method, s.String())
	if err != nil {
		return err
	}

	return s.setResult(returnsValue{values: converted})
}

// SetReturnsFunc makes matching calls return fn's results. fn takes no arguments or the method's
// arguments, and returns the method's results.
func (s *MethodCallSetup) SetReturnsFunc(fn any) error {
	computed, err := newResultsFunc(fn, s.method, s.String())
	if err != nil {
		return err
	}

	return s.setResult(returnsComputed{fn: computed})
}

// SetSequence answers successive matching calls with successive steps of the returned sequence.
func (s *MethodCallSetup) SetSequence() (*SequenceSetup, error) {
	seq := &sequence{}
	if err := s.setResult(seq); err != nil {
		return nil, err
	}

	return &SequenceSetup{setup: s, seq: seq}, nil
}

// SetThrows makes matching calls raise value: as the trailing error result when the method has
// one and value is an error, and as a panic otherwise.
func (s *MethodCallSetup) SetThrows(value any) error {
	if value == nil {
		return usage(ReasonNilArgument, s.String(), "exception value must not be nil")
	}

	return s.setResult(throwsFixed{value: value})
}

// SetThrowsFunc makes matching calls raise fn's result. fn takes no arguments or the method's
// arguments and returns one value; a nil result means the call succeeds with default results.
func (s *MethodCallSetup) SetThrowsFunc(fn any) error {
	computed, err := newThrowsFunc(fn, s.method, s.String())
	if err != nil {
		return err
	}

	return s.setResult(throwsComputed{fn: computed})
}

// SequenceSetup appends steps to a sequence; each step answers exactly one call.
type SequenceSetup struct {
	setup *MethodCallSetup
	seq   *sequence
}

// CallsThrough appends a step forwarding to the mock's target.
func (q *SequenceSetup) CallsThrough() error {
	if q.setup.mock.target == nil {
		return usage(ReasonNoTarget, q.setup.String(), "calling through requires a mock created with a target")
	}

	q.seq.steps = append(q.seq.steps, proceed{})

	return nil
}

// Pass appends a step that returns default results.
func (q *SequenceSetup) Pass() error {
	q.seq.steps = append(q.seq.steps, noOp{})

	return nil
}

// Returns appends a step returning values.
func (q *SequenceSetup) Returns(values ...any) error {
	converted, err := convertResults(values, q.setup.method, q.setup.String())
	if err != nil {
		return err
	}

	q.seq.steps = append(q.seq.steps, returnsValue{values: converted})

	return nil
}

// ReturnsFunc appends a step returning fn's results.
func (q *SequenceSetup) ReturnsFunc(fn any) error {
	computed, err := newResultsFunc(fn, q.setup.method, q.setup.String())
	if err != nil {
		return err
	}

	q.seq.steps = append(q.seq.steps, returnsComputed{fn: computed})

	return nil
}

// Throws appends a step raising value.
func (q *SequenceSetup) Throws(value any) error {
	if value == nil {
		return usage(ReasonNilArgument, q.setup.String(), "exception value must not be nil")
	}

	q.seq.steps = append(q.seq.steps, throwsFixed{value: value})

	return nil
}

// ThrowsFunc appends a step raising fn's result.
func (q *SequenceSetup) ThrowsFunc(fn any) error {
	computed, err := newThrowsFunc(fn, q.setup.method, q.setup.String())
	if err != nil {
		return err
	}

	q.seq.steps = append(q.seq.steps, throwsComputed{fn: computed})

	return nil
}

func newMethodCallSetup(mock *Mock, expectation *MethodExpectation, condition Condition) *MethodCallSetup {
	return &MethodCallSetup{
		setupBase: setupBase{expectation: expectation, condition: condition},
		mock:      mock,
		method:    expectation.Method(),
	}
}

func (s *MethodCallSetup) setResult(result behavior) error {
	if s.result != nil {
		return usage(ReasonDuplicateReturn, s.String(), "a return or throw policy is already set")
	}

	s.result = result

	return nil
}

// convertResults checks values against the method's results and converts literals.
func convertResults(values []any, method *expr.Method, source string) ([]any, error) {
	if len(values) != len(method.Results) {
		return nil, usage(ReasonReturnSignature, source, "%s returns %d values, got %d",
			method, len(method.Results), len(values))
	}

	converted := make([]any, len(values))

	for i, value := range values {
		constant, err := expr.TypedConst(value, method.Results[i])
		if err != nil {
			return nil, usage(ReasonReturnSignature, source, "result %d: %v", i, err)
		}

		converted[i] = constant.Value
		if converted[i] == nil {
			converted[i] = reflect.Zero(method.Results[i]).Interface()
		}
	}

	return converted, nil
}

func newResultsFunc(fn any, method *expr.Method, source string) (callable, error) {
	computed, err := newCallable(fn, method, source)
	if err != nil {
		return callable{}, err
	}

	fnType := computed.fn.Type()
	if method.IsVoid() || fnType.NumOut() != len(method.Results) {
		return callable{}, usage(ReasonReturnSignature, source, "%s returns %d values, but %s returns %d",
			method, len(method.Results), fnType, fnType.NumOut())
	}

	for i, resultType := range method.Results {
		if !fnType.Out(i).AssignableTo(resultType) {
			return callable{}, usage(ReasonReturnSignature, source, "result %d: %s is not assignable to %s",
				i, fnType.Out(i), expr.TypeName(resultType))
		}
	}

	return computed, nil
}

func newThrowsFunc(fn any, method *expr.Method, source string) (callable, error) {
	computed, err := newCallable(fn, method, source)
	if err != nil {
		return callable{}, err
	}

	fnType := computed.fn.Type()
	if fnType.NumOut() != 1 || fnType.Out(0).Kind() != reflect.Interface {
		return callable{}, usage(ReasonReturnSignature, source,
			"exception function must return one error or any value, got %s", fnType)
	}

	return computed, nil
}
