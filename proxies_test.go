package impmock_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/toejough/impmock"
)

type Calculator interface {
	Add(a, b int) int
	Divide(a, b int) (int, error)
	Reset()
}

type Closer interface {
	Close() error
}

type Greeter interface {
	GetString() string
	Name() string
	SetName(name string)
}

type Ints []int

type Service interface {
	Calculator() Calculator
	Greeter() Greeter
}

type Tally interface {
	Evens() Ints
	Sum(values Ints) int
}

type calculatorProxy struct {
	interceptor impmock.Interceptor
}

func (p *calculatorProxy) Add(a, b int) int {
	res := impmock.Invoke(p.interceptor, p, calculatorMethods.Method("Add"), a, b)

	return impmock.Result[int](res, 0)
}

func (p *calculatorProxy) Close() error {
	res := impmock.Invoke(p.interceptor, p, closerMethods.Method("Close"))

	return impmock.Result[error](res, 0)
}

func (p *calculatorProxy) Divide(a, b int) (int, error) {
	res := impmock.Invoke(p.interceptor, p, calculatorMethods.Method("Divide"), a, b)

	return impmock.Result[int](res, 0), impmock.Result[error](res, 1)
}

func (p *calculatorProxy) Reset() {
	impmock.Invoke(p.interceptor, p, calculatorMethods.Method("Reset"))
}

func (p *calculatorProxy) String() string {
	res := impmock.Invoke(p.interceptor, p, impmock.StringMethod())

	return impmock.Result[string](res, 0)
}

type greeterProxy struct {
	interceptor impmock.Interceptor
}

func (p *greeterProxy) GetString() string {
	res := impmock.Invoke(p.interceptor, p, greeterMethods.Method("GetString"))

	return impmock.Result[string](res, 0)
}

func (p *greeterProxy) Name() string {
	res := impmock.Invoke(p.interceptor, p, greeterMethods.Method("Name"))

	return impmock.Result[string](res, 0)
}

func (p *greeterProxy) SetName(name string) {
	impmock.Invoke(p.interceptor, p, greeterMethods.Method("SetName"), name)
}

func (p *greeterProxy) String() string {
	res := impmock.Invoke(p.interceptor, p, impmock.StringMethod())

	return impmock.Result[string](res, 0)
}

type serviceProxy struct {
	interceptor impmock.Interceptor
}

func (p *serviceProxy) Calculator() Calculator {
	res := impmock.Invoke(p.interceptor, p, serviceMethods.Method("Calculator"))

	return impmock.Result[Calculator](res, 0)
}

func (p *serviceProxy) Greeter() Greeter {
	res := impmock.Invoke(p.interceptor, p, serviceMethods.Method("Greeter"))

	return impmock.Result[Greeter](res, 0)
}

func (p *serviceProxy) String() string {
	res := impmock.Invoke(p.interceptor, p, impmock.StringMethod())

	return impmock.Result[string](res, 0)
}

type tallyProxy struct {
	interceptor impmock.Interceptor
}

func (p *tallyProxy) Evens() Ints {
	res := impmock.Invoke(p.interceptor, p, tallyMethods.Method("Evens"))

	return impmock.Result[Ints](res, 0)
}

func (p *tallyProxy) String() string {
	res := impmock.Invoke(p.interceptor, p, impmock.StringMethod())

	return impmock.Result[string](res, 0)
}

func (p *tallyProxy) Sum(values Ints) int {
	res := impmock.Invoke(p.interceptor, p, tallyMethods.Method("Sum"), values)

	return impmock.Result[int](res, 0)
}

// fakeReporter records fatal failures instead of stopping the test.
type fakeReporter struct {
	failures []string
}

func (f *fakeReporter) Fatalf(format string, args ...any) {
	f.failures = append(f.failures, fmt.Sprintf(format, args...))
}

func (f *fakeReporter) Helper() {}

// unexported variables.
var (
	//nolint:gochecknoglobals // method lookup tables shared by the proxies
	calculatorMethods = impmock.MethodsOf[Calculator]()
	//nolint:gochecknoglobals // method lookup tables shared by the proxies
	closerMethods = impmock.MethodsOf[Closer]()
	//nolint:gochecknoglobals // method lookup tables shared by the proxies
	greeterMethods = impmock.MethodsOf[Greeter]()
	//nolint:gochecknoglobals // method lookup tables shared by the proxies
	serviceMethods = impmock.MethodsOf[Service]()
	//nolint:gochecknoglobals // method lookup tables shared by the proxies
	tallyMethods = impmock.MethodsOf[Tally]()
)

func newFactory(t *testing.T) *impmock.ProxyFactory {
	t.Helper()

	factory := impmock.NewProxyFactory()
	impmock.MustRegister[Calculator](factory, func(interceptor impmock.Interceptor) any {
		return &calculatorProxy{interceptor: interceptor}
	})
	impmock.MustRegister[Greeter](factory, func(interceptor impmock.Interceptor) any {
		return &greeterProxy{interceptor: interceptor}
	})
	impmock.MustRegister[Service](factory, func(interceptor impmock.Interceptor) any {
		return &serviceProxy{interceptor: interceptor}
	})
	impmock.MustRegister[Tally](factory, func(interceptor impmock.Interceptor) any {
		return &tallyProxy{interceptor: interceptor}
	})

	return factory
}

// reasonOf returns the reason of a framework failure recovered from a panic or returned.
func reasonOf(value any) impmock.Reason {
	err, ok := value.(error)
	if !ok {
		return ""
	}

	var failure *impmock.Error
	if errors.As(err, &failure) {
		return failure.Reason
	}

	return ""
}

// recovered runs fn and returns what it panicked with.
func recovered(fn func()) (value any) {
	defer func() { value = recover() }()

	fn()

	return nil
}
