package core

import (
	"reflect"
	"sync"

	"github.com/toejough/impmock/expr"
)

// Interceptor receives every call made on a proxy. It records the outcome on the invocation.
type Interceptor interface {
	Intercept(inv *Invocation)
}

// ProxyConstructor builds a proxy forwarding every method to interceptor.
type ProxyConstructor func(interceptor Interceptor) any

// ProxyFactory creates proxies for the interface types registered with it.
type ProxyFactory struct {
	mu           sync.RWMutex
	constructors map[reflect.Type]ProxyConstructor
}

// NewProxyFactory returns an empty factory.
func NewProxyFactory() *ProxyFactory {
	return &ProxyFactory{constructors: make(map[reflect.Type]ProxyConstructor)}
}

// CanGenerate reports whether a constructor is registered for t.
func (f *ProxyFactory) CanGenerate(t reflect.Type) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, ok := f.constructors[t]

	return ok
}

// Generate builds a proxy for t. The proxy must also implement every type in extras.
func (f *ProxyFactory) Generate(t reflect.Type, extras []reflect.Type, interceptor Interceptor) (any, error) {
	f.mu.RLock()
	ctor, ok := f.constructors[t]
	f.mu.RUnlock()

	if !ok {
		return nil, usage(ReasonUnmockableType, expr.TypeName(t), "no proxy is registered for this type")
	}

	proxy := ctor(interceptor)
	proxyType := reflect.TypeOf(proxy)

	if !proxyType.Implements(t) {
		return nil, usage(ReasonUnmockableType, expr.TypeName(t), "proxy %s does not implement it", proxyType)
	}

	for _, extra := range extras {
		if extra.Kind() != reflect.Interface {
			return nil, usage(ReasonExtraInterface, expr.TypeName(extra), "additional types must be interfaces")
		}

		if !proxyType.Implements(extra) {
			return nil, usage(ReasonExtraInterface, expr.TypeName(extra),
				"proxy %s does not implement it; generate a proxy for an interface embedding it", proxyType)
		}
	}

	return proxy, nil
}

// Register makes t mockable through ctor. t must be an interface type.
func (f *ProxyFactory) Register(t reflect.Type, ctor ProxyConstructor) error {
	if t == nil || t.Kind() != reflect.Interface {
		return usage(ReasonUnmockableType, expr.TypeName(t), "only interface types can be mocked")
	}

	if ctor == nil {
		return usage(ReasonNilArgument, expr.TypeName(t), "proxy constructor must not be nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.constructors[t] = ctor

	return nil
}

// Invoke is what proxy methods call: it records the call of method with args on proxy, hands it
// to interceptor, and returns the results. Raised values and failures panic.
func Invoke(interceptor Interceptor, proxy any, method *expr.Method, args ...any) []any {
	inv := NewInvocation(reflect.TypeOf(proxy), method, args)
	interceptor.Intercept(inv)

	return inv.Results()
}
