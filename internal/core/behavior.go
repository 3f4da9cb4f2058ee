package core

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/toejough/impmock/expr"
)

// behavior produces the outcome of a call. It reports whether it handled the call; an unhandled
// call falls through to the mock's default.
type behavior interface {
	execute(setup *MethodCallSetup, inv *Invocation) (bool, error)
}

type noOp struct{}

func (noOp) execute(setup *MethodCallSetup, inv *Invocation) (bool, error) {
	return true, inv.SetReturnValues(DefaultResults(inv.Method(), setup.mock.defaults, setup.mock)...)
}

type proceed struct{}

func (proceed) execute(setup *MethodCallSetup, inv *Invocation) (bool, error) {
	target := reflect.ValueOf(setup.mock.target)

	method := target.MethodByName(inv.Method().Name)
	if !method.IsValid() {
		return false, expectationFailed(ReasonNoTarget, inv.String(),
			"target %s has no method %s", target.Type(), inv.Method().Name)
	}

	out := callable{fn: method, takesArgs: true}.call(inv.Arguments())

	return true, inv.SetReturnValues(valuesOf(out, inv.Method().Results)...)
}

type returnsComputed struct {
	fn callable
}

func (r returnsComputed) execute(_ *MethodCallSetup, inv *Invocation) (bool, error) {
	return true, inv.SetReturnValues(valuesOf(r.fn.call(inv.Arguments()), inv.Method().Results)...)
}

type returnsValue struct {
	values []any
}

func (r returnsValue) execute(_ *MethodCallSetup, inv *Invocation) (bool, error) {
	return true, inv.SetReturnValues(r.values...)
}

// sequence answers each call with the next step. Calls past the last step are left unhandled.
type sequence struct {
	mu    sync.Mutex
	steps []behavior
	next  int
}

func (q *sequence) execute(setup *MethodCallSetup, inv *Invocation) (bool, error) {
	q.mu.Lock()

	if q.next >= len(q.steps) {
		q.mu.Unlock()

		return false, nil
	}

	step := q.steps[q.next]
	q.next++
	q.mu.Unlock()

	return step.execute(setup, inv)
}

type throwsComputed struct {
	fn callable
}

func (r throwsComputed) execute(setup *MethodCallSetup, inv *Invocation) (bool, error) {
	raised := r.fn.call(inv.Arguments())[0]
	if raised.IsNil() {
		return true, inv.SetReturnValues(DefaultResults(inv.Method(), setup.mock.defaults, setup.mock)...)
	}

	return true, inv.SetException(raised.Interface())
}

type throwsFixed struct {
	value any
}

func (r throwsFixed) execute(_ *MethodCallSetup, inv *Invocation) (bool, error) {
	return true, inv.SetException(r.value)
}

// callable is a user function invoked either without arguments or with the call's arguments.
type callable struct {
	fn        reflect.Value
	takesArgs bool
}

// newCallable checks that fn is a function taking no parameters or exactly method's parameters.
func newCallable(fn any, method *expr.Method, source string) (callable, error) {
	val := reflect.ValueOf(fn)
	if fn == nil || val.Kind() != reflect.Func || val.IsNil() {
		return callable{}, usage(ReasonCallbackSignature, source, "%T is not a function", fn)
	}

	fnType := val.Type()
	if fnType.NumIn() == 0 {
		return callable{fn: val}, nil
	}

	if fnType.NumIn() != len(method.Params) || fnType.IsVariadic() != method.Variadic {
		return callable{}, usage(ReasonCallbackSignature, source,
			"%s does not match the parameters of %s %s", fnType, method, method.Signature())
	}

	for i, param := range method.Params {
		if !param.AssignableTo(fnType.In(i)) {
			return callable{}, usage(ReasonCallbackSignature, source,
				"parameter %d: %s does not accept %s", i, fnType, expr.TypeName(param))
		}
	}

	return callable{fn: val, takesArgs: true}, nil
}

func (c callable) call(args []any) []reflect.Value {
	if !c.takesArgs {
		return c.fn.Call(nil)
	}

	fnType := c.fn.Type()
	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(fnType.In(i))
		} else {
			in[i] = reflect.ValueOf(arg)
		}
	}

	if fnType.IsVariadic() {
		return c.fn.CallSlice(in)
	}

	return c.fn.Call(in)
}

// executionLimit fails calls past the first max.
type executionLimit struct {
	max   int64
	count atomic.Int64
}

func (l *executionLimit) check(inv *Invocation) error {
	count := l.count.Add(1)
	if count <= l.max {
		return nil
	}

	return expectationFailed(ReasonExecutionLimit, inv.String(),
		"setup is limited to %d executions; this is execution %d", l.max, count)
}

// valuesOf unwraps out, converting each value whose type is only assignable to its concrete
// result type into that type.
func valuesOf(out []reflect.Value, results []reflect.Type) []any {
	values := make([]any, len(out))
	for i, val := range out {
		if i < len(results) && results[i].Kind() != reflect.Interface && val.Type() != results[i] {
			val = val.Convert(results[i])
		}

		values[i] = val.Interface()
	}

	return values
}
