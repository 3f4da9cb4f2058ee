package core_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/toejough/impmock/expr"
	"github.com/toejough/impmock/internal/core"
)

type Calculator interface {
	Add(a, b int) int
	Divide(a, b int) (int, error)
	Reset()
	Sum(values ...int) int
}

type Store interface {
	AddChanged(handler func(string))
	Calculator() Calculator
	Count() int
	Get(key string) (string, error)
	Item(key string) int
	Name() string
	Parent() Store
	RemoveChanged(handler func(string))
	SetItem(key string, value int)
	SetName(name string)
}

type Closer interface {
	Close() error
}

type Service interface {
	Foo(n int) int
	GetString() string
	Items() []string
	Lookup() map[string]int
	Pair() struct {
		Name  string
		Count int
	}
}

type calculatorProxy struct {
	interceptor core.Interceptor
}

func (p *calculatorProxy) Add(a, b int) int {
	res := core.Invoke(p.interceptor, p, calculatorModel.Method("Add"), a, b)

	return res[0].(int) //nolint:forcetypeassert // results match the signature
}

func (p *calculatorProxy) Close() error {
	res := core.Invoke(p.interceptor, p, closerModel.Method("Close"))
	err, _ := res[0].(error)

	return err
}

func (p *calculatorProxy) Divide(a, b int) (int, error) {
	res := core.Invoke(p.interceptor, p, calculatorModel.Method("Divide"), a, b)
	err, _ := res[1].(error)

	return res[0].(int), err //nolint:forcetypeassert // results match the signature
}

func (p *calculatorProxy) Reset() {
	core.Invoke(p.interceptor, p, calculatorModel.Method("Reset"))
}

func (p *calculatorProxy) String() string {
	res := core.Invoke(p.interceptor, p, expr.StringMethod())

	return res[0].(string) //nolint:forcetypeassert // results match the signature
}

func (p *calculatorProxy) Sum(values ...int) int {
	res := core.Invoke(p.interceptor, p, calculatorModel.Method("Sum"), values)

	return res[0].(int) //nolint:forcetypeassert // results match the signature
}

type serviceProxy struct {
	interceptor core.Interceptor
}

func (p *serviceProxy) Foo(n int) int {
	res := core.Invoke(p.interceptor, p, serviceModel.Method("Foo"), n)

	return res[0].(int) //nolint:forcetypeassert // results match the signature
}

func (p *serviceProxy) GetString() string {
	res := core.Invoke(p.interceptor, p, serviceModel.Method("GetString"))

	return res[0].(string) //nolint:forcetypeassert // results match the signature
}

func (p *serviceProxy) Items() []string {
	res := core.Invoke(p.interceptor, p, serviceModel.Method("Items"))
	items, _ := res[0].([]string)

	return items
}

func (p *serviceProxy) Lookup() map[string]int {
	res := core.Invoke(p.interceptor, p, serviceModel.Method("Lookup"))
	lookup, _ := res[0].(map[string]int)

	return lookup
}

func (p *serviceProxy) Pair() struct {
	Name  string
	Count int
} {
	res := core.Invoke(p.interceptor, p, serviceModel.Method("Pair"))

	return res[0].(struct { //nolint:forcetypeassert // results match the signature
		Name  string
		Count int
	})
}

func (p *serviceProxy) String() string {
	res := core.Invoke(p.interceptor, p, expr.StringMethod())

	return res[0].(string) //nolint:forcetypeassert // results match the signature
}

type storeProxy struct {
	interceptor core.Interceptor
}

func (p *storeProxy) AddChanged(handler func(string)) {
	core.Invoke(p.interceptor, p, storeModel.Method("AddChanged"), handler)
}

func (p *storeProxy) Calculator() Calculator {
	res := core.Invoke(p.interceptor, p, storeModel.Method("Calculator"))
	calc, _ := res[0].(Calculator)

	return calc
}

func (p *storeProxy) Count() int {
	res := core.Invoke(p.interceptor, p, storeModel.Method("Count"))

	return res[0].(int) //nolint:forcetypeassert // results match the signature
}

func (p *storeProxy) Get(key string) (string, error) {
	res := core.Invoke(p.interceptor, p, storeModel.Method("Get"), key)
	err, _ := res[1].(error)

	return res[0].(string), err //nolint:forcetypeassert // results match the signature
}

func (p *storeProxy) Item(key string) int {
	res := core.Invoke(p.interceptor, p, storeModel.Method("Item"), key)

	return res[0].(int) //nolint:forcetypeassert // results match the signature
}

func (p *storeProxy) Name() string {
	res := core.Invoke(p.interceptor, p, storeModel.Method("Name"))

	return res[0].(string) //nolint:forcetypeassert // results match the signature
}

func (p *storeProxy) Parent() Store {
	res := core.Invoke(p.interceptor, p, storeModel.Method("Parent"))
	parent, _ := res[0].(Store)

	return parent
}

func (p *storeProxy) RemoveChanged(handler func(string)) {
	core.Invoke(p.interceptor, p, storeModel.Method("RemoveChanged"), handler)
}

func (p *storeProxy) SetItem(key string, value int) {
	core.Invoke(p.interceptor, p, storeModel.Method("SetItem"), key, value)
}

func (p *storeProxy) SetName(name string) {
	core.Invoke(p.interceptor, p, storeModel.Method("SetName"), name)
}

func (p *storeProxy) String() string {
	res := core.Invoke(p.interceptor, p, expr.StringMethod())

	return res[0].(string) //nolint:forcetypeassert // results match the signature
}

// realCalculator is a concrete implementation used as a call-through target.
type realCalculator struct{}

func (realCalculator) Add(a, b int) int { return a + b }

func (realCalculator) Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, errDivideByZero
	}

	return a / b, nil
}

func (realCalculator) Reset() {}

func (realCalculator) Sum(values ...int) int {
	total := 0
	for _, value := range values {
		total += value
	}

	return total
}

// fakeTimer fires immediately and records what was waited for.
type fakeTimer struct {
	mu     sync.Mutex
	waited []time.Duration
}

func (f *fakeTimer) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	f.waited = append(f.waited, d)
	f.mu.Unlock()

	fired := make(chan time.Time, 1)
	fired <- time.Time{}

	return fired
}

func (f *fakeTimer) Waited() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]time.Duration(nil), f.waited...)
}

func newFactory(t *testing.T) *core.ProxyFactory {
	t.Helper()

	factory := core.NewProxyFactory()
	register := map[reflect.Type]core.ProxyConstructor{
		reflect.TypeFor[Calculator](): func(i core.Interceptor) any { return &calculatorProxy{interceptor: i} },
		reflect.TypeFor[Service]():    func(i core.Interceptor) any { return &serviceProxy{interceptor: i} },
		reflect.TypeFor[Store]():      func(i core.Interceptor) any { return &storeProxy{interceptor: i} },
	}

	for mockedType, ctor := range register {
		if err := factory.Register(mockedType, ctor); err != nil {
			t.Fatalf("register %s: %v", mockedType, err)
		}
	}

	return factory
}

func newMock[T any](t *testing.T, opts ...core.Option) *core.Mock {
	t.Helper()

	mock, err := core.NewMock(reflect.TypeFor[T](), newFactory(t), opts...)
	if err != nil {
		t.Fatalf("new mock: %v", err)
	}

	return mock
}

func on[T any](build func(x *expr.Parameter) expr.Node) *expr.Lambda {
	return expr.Fn(reflect.TypeFor[T](), build)
}

func setup(t *testing.T, mock *core.Mock, lambda *expr.Lambda) *core.MethodCallSetup {
	t.Helper()

	created, err := mock.Setup(lambda, nil)
	if err != nil {
		t.Fatalf("setup %s: %v", lambda, err)
	}

	return created
}

// reasonOf returns the reason of a framework error, or "" for anything else.
func reasonOf(err error) core.Reason {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr.Reason
	}

	return ""
}

// panicReason runs fn and returns the reason of the framework error it panics with.
func panicReason(fn func()) (reason core.Reason) {
	defer func() {
		recovered := recover()
		if err, ok := recovered.(error); ok {
			reason = reasonOf(err)
		}
	}()

	fn()

	return ""
}

// unexported variables.
var (
	calculatorModel = expr.ModelOf(reflect.TypeFor[Calculator]())
	closerModel     = expr.ModelOf(reflect.TypeFor[Closer]())
	errDivideByZero = errors.New("divide by zero")
	serviceModel    = expr.ModelOf(reflect.TypeFor[Service]())
	storeModel      = expr.ModelOf(reflect.TypeFor[Store]())
)
