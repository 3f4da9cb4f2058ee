package impmock

import (
	"reflect"

	"github.com/toejough/impmock/expr"
	"github.com/toejough/impmock/internal/core"
)

// Invoke is what proxy methods call: it records the call of method with args on proxy, hands it
// to interceptor, and returns the results. A variadic method passes its variadic slice as the last
// argument. Raised values the method cannot return as an error, and framework failures, panic.
func Invoke(interceptor Interceptor, proxy any, method *expr.Method, args ...any) []any {
	return core.Invoke(interceptor, proxy, method, args...)
}

// MethodsOf returns the member model of T, which proxies look their methods up in.
func MethodsOf[T any]() *expr.TypeModel {
	return expr.ModelOf(reflect.TypeFor[T]())
}

// MustRegister is Register, panicking on error.
func MustRegister[T any](factory *ProxyFactory, ctor ProxyConstructor) {
	err := Register[T](factory, ctor)
	if err != nil {
		panic(err)
	}
}

// Register makes the interface T mockable through factory with proxies built by ctor.
func Register[T any](factory *ProxyFactory, ctor ProxyConstructor) error {
	return factory.Register(reflect.TypeFor[T](), ctor)
}

// Result returns results[i] as T, or T's zero value when it is nil or out of range.
func Result[T any](results []any, i int) T {
	if i < 0 || i >= len(results) {
		var zero T

		return zero
	}

	value, _ := results[i].(T)

	return value
}

// WithExtraInterface makes the mock's proxy answer As[U] too. The proxy must implement U.
func WithExtraInterface[U any]() Option {
	return core.WithExtraInterfaces(reflect.TypeFor[U]())
}
